package boosting

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestTrainerBasic(t *testing.T) {
	// y = 2*x1 + 3*x2 with a small deterministic wobble
	X := mat.NewDense(100, 2, nil)
	y := mat.NewDense(100, 1, nil)
	for i := 0; i < 100; i++ {
		x1 := float64(i) / 10.0
		x2 := float64(i%10) / 5.0
		X.Set(i, 0, x1)
		X.Set(i, 1, x2)
		y.Set(i, 0, 2*x1+3*x2+0.1*(float64(i%3)-1))
	}

	params := TrainingParams{
		NumIterations: 20,
		LearningRate:  0.1,
		NumLeaves:     31,
		MaxDepth:      5,
		MinDataInLeaf: 5,
		Lambda:        1.0,
	}

	trainer := NewTrainer(params)
	if err := trainer.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if len(trainer.trees) != params.NumIterations {
		t.Errorf("built %d trees, want %d", len(trainer.trees), params.NumIterations)
	}

	model := trainer.GetModel()
	if model == nil {
		t.Fatal("GetModel() returned nil")
	}
	if model.NumFeatures != 2 {
		t.Errorf("NumFeatures = %d, want 2", model.NumFeatures)
	}

	// The init score is the target mean, so the first-round loss already
	// beats predicting zero and boosting must only improve from there.
	if loss := trainer.calculateLoss(); loss > 1.0 {
		t.Errorf("final training MSE = %v, want < 1.0", loss)
	}
}

func TestTrainerDimensionMismatch(t *testing.T) {
	trainer := NewTrainer(DefaultParams())
	if err := trainer.Fit(mat.NewDense(4, 1, nil), mat.NewDense(3, 1, nil)); err == nil {
		t.Fatal("Fit() expected error for row count mismatch")
	}

	trainer = NewTrainer(DefaultParams())
	if err := trainer.Fit(mat.NewDense(4, 1, nil), mat.NewDense(4, 2, nil)); err == nil {
		t.Fatal("Fit() expected error for multi-column target")
	}
}

func TestTrainerLeafValueRegularization(t *testing.T) {
	// One depth-1 tree over y = x with x = 0..9. The best split sits at
	// the middle, and with λ = 0 each leaf recovers its mean target
	// exactly. A large λ shrinks the leaf values toward zero, so the
	// regularized loss must be strictly worse.
	X := mat.NewDense(10, 1, nil)
	y := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		X.Set(i, 0, float64(i))
		y.Set(i, 0, float64(i))
	}

	fit := func(lambda float64) *Trainer {
		trainer := NewTrainer(TrainingParams{
			NumIterations: 1,
			LearningRate:  1.0,
			NumLeaves:     31,
			MaxDepth:      1,
			MinDataInLeaf: 1,
			Lambda:        lambda,
		})
		if err := trainer.Fit(X, y); err != nil {
			t.Fatal(err)
		}
		return trainer
	}

	unregularized := fit(0.0)
	regularized := fit(10.0)

	if lossU, lossR := unregularized.calculateLoss(), regularized.calculateLoss(); !(lossU < lossR) {
		t.Errorf("regularized loss %v should exceed unregularized loss %v", lossR, lossU)
	}

	// Left leaf covers x = 0..4 with mean 2, right leaf x = 5..9 with
	// mean 7.
	if got := unregularized.predictions[0]; math.Abs(got-2.0) > 1e-10 {
		t.Errorf("left leaf prediction = %v, want 2.0", got)
	}
	if got := unregularized.predictions[9]; math.Abs(got-7.0) > 1e-10 {
		t.Errorf("right leaf prediction = %v, want 7.0", got)
	}
}
