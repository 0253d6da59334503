package model

// EstimatorState は推定器の学習状態を表す
type EstimatorState int

const (
	// NotFitted は未学習の状態
	NotFitted EstimatorState = iota
	// Fitted は学習済みの状態
	Fitted
)

// BaseEstimator は補完器や回帰器など、パイプラインの全推定器に
// 埋め込まれる学習状態の基底構造体。
// 学習前にTransformやPredictを呼び出すとNotFittedErrorになる
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted は学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted は学習済み状態に設定する。Fitの成功時にのみ呼ぶ
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset は未学習の初期状態に戻す
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
