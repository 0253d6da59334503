// Package metrics は回帰モデルの評価指標を提供する
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/agroml/yieldcast/pkg/errors"
)

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += math.Abs(diff)
	}

	return sum / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("R2Score", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	// yTrueの平均を計算
	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	// 全変動（TSS）と残差変動（RSS）を計算
	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	// 全変動が0の場合（すべてのyTrueが同じ値）
	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

// MAPE は平均絶対パーセンテージ誤差（Mean Absolute Percentage Error）を計算する
func MAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAPE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAPE", n, yPred.Len(), 0)
	}

	// MAPE = (100/n) * Σ|yTrue - yPred|/|yTrue|
	var sum float64
	validCount := 0

	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		if yTrueVal != 0 { // ゼロ除算を避ける
			diff := math.Abs(yTrueVal - yPred.AtVec(i))
			sum += diff / math.Abs(yTrueVal)
			validCount++
		}
	}

	if validCount == 0 {
		return 0, errors.Newf("MAPE: all yTrue values are zero")
	}

	return (sum / float64(validCount)) * 100, nil
}

// WMAPE は重み付き平均絶対パーセンテージ誤差を計算する
// 各行の絶対パーセンテージ誤差をその行の真値の大きさで重み付けしてから
// 平均する（一律の重みではない）。|yTrue|で重み付けするため
//
//	WMAPE = Σ|yTrue - yPred| / Σ|yTrue| * 100
//
// に簡約される
func WMAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("WMAPE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("WMAPE", n, yPred.Len(), 0)
	}

	var sumErr, sumTrue float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		sumErr += math.Abs(yTrueVal - yPred.AtVec(i))
		sumTrue += math.Abs(yTrueVal)
	}

	if sumTrue == 0 {
		return 0, errors.Newf("WMAPE: all yTrue values are zero")
	}

	return sumErr / sumTrue * 100, nil
}

// Report は6つの回帰指標をまとめたもの
type Report struct {
	MAE   float64
	MSE   float64
	RMSE  float64
	R2    float64
	MAPE  float64
	WMAPE float64
}

// NewReport は真値と予測値から全指標を計算する
func NewReport(yTrue, yPred *mat.VecDense) (Report, error) {
	var (
		rep Report
		err error
	)
	if rep.MAE, err = MAE(yTrue, yPred); err != nil {
		return Report{}, err
	}
	if rep.MSE, err = MSE(yTrue, yPred); err != nil {
		return Report{}, err
	}
	if rep.RMSE, err = RMSE(yTrue, yPred); err != nil {
		return Report{}, err
	}
	if rep.R2, err = R2Score(yTrue, yPred); err != nil {
		return Report{}, err
	}
	if rep.MAPE, err = MAPE(yTrue, yPred); err != nil {
		return Report{}, err
	}
	if rep.WMAPE, err = WMAPE(yTrue, yPred); err != nil {
		return Report{}, err
	}
	return rep, nil
}
