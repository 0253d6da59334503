package model

import "gonum.org/v1/gonum/mat"

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Regressor は回帰モデルのインターフェース
type Regressor interface {
	// Fit は特徴量行列とターゲットベクトルからモデルを学習する
	Fit(X, y mat.Matrix) error

	// Predict は行ごとに1つの実数値予測を返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}
