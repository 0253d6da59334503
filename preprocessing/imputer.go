// Package preprocessing はモデリング前のデータ変換を提供する
package preprocessing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/agroml/yieldcast/core/model"
	"github.com/agroml/yieldcast/pkg/errors"
)

// KNNImputer はscikit-learn互換のk近傍欠損値補完器
// 各欠損値を、その列が観測されているk個の最近傍行の平均値で埋める
//
// 距離はnan-euclidean: 両行で観測されている座標のみで計算し、
// 欠損座標の分だけスケーリングする
//
//	d(a, b) = sqrt( n_features / n_shared * Σ_shared (a_i - b_i)² )
//
// Fitは訓練データの行列（近傍統計）を保持し、Transformは再学習しない。
// 1回のパイプライン実行の中で、訓練テーブルにはFitTransform、
// テストテーブルにはTransformのみを適用する
type KNNImputer struct {
	model.BaseEstimator

	// NNeighbors は補完に使う近傍数
	NNeighbors int

	// NFeatures は特徴量の数
	NFeatures int

	// train はFit時に保持した訓練行列（NaNを含む）
	train *mat.Dense
}

var _ model.Transformer = (*KNNImputer)(nil)

// NewKNNImputer は新しいKNNImputerを作成する
//
// パラメータ:
//   - nNeighbors: 補完に使う近傍数（正の整数）
func NewKNNImputer(nNeighbors int) *KNNImputer {
	return &KNNImputer{NNeighbors: nNeighbors}
}

// Fit は訓練データを近傍統計として保持する
func (imp *KNNImputer) Fit(X mat.Matrix) error {
	if imp.NNeighbors <= 0 {
		return errors.NewValidationError("n_neighbors", "must be positive", imp.NNeighbors)
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("KNNImputer.Fit", "empty data", errors.ErrEmptyData)
	}

	train := mat.NewDense(r, c, nil)
	train.Copy(X)

	imp.train = train
	imp.NFeatures = c
	imp.SetFitted()
	return nil
}

// Transform は学習済みの近傍統計を使って欠損値を補完する
// 入力は変更せず、補完済みのコピーを返す。同じ入力と同じ学習状態からは
// 常に同じ出力が得られる（タイは行番号の小さい近傍を優先）
func (imp *KNNImputer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !imp.IsFitted() {
		return nil, errors.NewNotFittedError("KNNImputer", "Transform")
	}

	r, c := X.Dims()
	if c != imp.NFeatures {
		return nil, errors.NewDimensionError("KNNImputer.Transform", imp.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Copy(X)

	trainRows, _ := imp.train.Dims()

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if !math.IsNaN(X.At(i, j)) {
				continue
			}

			// 列jが観測されていて距離が計算できる訓練行を候補にする
			type neighbor struct {
				dist float64
				row  int
			}
			var candidates []neighbor
			for t := 0; t < trainRows; t++ {
				if math.IsNaN(imp.train.At(t, j)) {
					continue
				}
				d, ok := imp.nanEuclidean(X, i, t)
				if !ok {
					continue
				}
				candidates = append(candidates, neighbor{dist: d, row: t})
			}

			if len(candidates) == 0 {
				result.Set(i, j, imp.columnMean(j))
				continue
			}

			sort.Slice(candidates, func(a, b int) bool {
				if candidates[a].dist != candidates[b].dist {
					return candidates[a].dist < candidates[b].dist
				}
				return candidates[a].row < candidates[b].row
			})

			k := imp.NNeighbors
			if k > len(candidates) {
				k = len(candidates)
			}

			sum := 0.0
			for _, nb := range candidates[:k] {
				sum += imp.train.At(nb.row, j)
			}
			result.Set(i, j, sum/float64(k))
		}
	}

	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを補完する
func (imp *KNNImputer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := imp.Fit(X); err != nil {
		return nil, err
	}
	return imp.Transform(X)
}

// nanEuclidean はクエリ行と訓練行のnan-euclidean距離を計算する
// 両行で観測されている座標が存在しない場合はok=falseを返す
func (imp *KNNImputer) nanEuclidean(X mat.Matrix, queryRow, trainRow int) (float64, bool) {
	shared := 0
	sum := 0.0
	for j := 0; j < imp.NFeatures; j++ {
		a := X.At(queryRow, j)
		b := imp.train.At(trainRow, j)
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		diff := a - b
		sum += diff * diff
		shared++
	}
	if shared == 0 {
		return 0, false
	}
	return math.Sqrt(float64(imp.NFeatures) / float64(shared) * sum), true
}

// columnMean は訓練データにおける列jの観測値の平均を返す
// 観測値が1つもない場合はNaNを返す（呼び出し側がそのまま伝播させる）
func (imp *KNNImputer) columnMean(j int) float64 {
	rows, _ := imp.train.Dims()
	sum := 0.0
	count := 0
	for t := 0; t < rows; t++ {
		v := imp.train.At(t, j)
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// String は補完器の文字列表現を返す
func (imp *KNNImputer) String() string {
	if !imp.IsFitted() {
		return fmt.Sprintf("KNNImputer(n_neighbors=%d)", imp.NNeighbors)
	}
	return fmt.Sprintf("KNNImputer(n_neighbors=%d, n_features=%d)", imp.NNeighbors, imp.NFeatures)
}
