package kernel

import (
	"errors"
	"fmt"
	"math"

	"baggage/internal/pkg/errs"
	"baggage/internal/pkg/guard"
)

var (
	// ErrWeightIsNotConstructed is returned when a zero-value Weight is used.
	ErrWeightIsNotConstructed = errs.NewValueIsRequiredError("weight must be created via NewWeight")
	// ErrWeightIsNotPositive is the cause reported for zero, negative, NaN or infinite weights.
	ErrWeightIsNotPositive = errors.New("must be a positive finite number of kilograms")
)

// Weight is the mass of a baggage item in kilograms.
// The zero value is invalid; build it with NewWeight.
//
// Example:
//
//	w, err := kernel.NewWeight(20.5)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(w) // 20.50 kg
type Weight struct { //nolint:recvcheck //using for validation
	kg    float64
	guard guard.ConstructorGuard
}

// NewWeight returns a Weight for any positive, finite kg.
func NewWeight(kg float64) (Weight, error) {
	w := Weight{
		guard: guard.NewConstructorGuard(),
	}

	if err := w.setKg(kg); err != nil {
		return Weight{}, err
	}

	return w, nil
}

// Validate reports whether the weight was created via NewWeight.
func (w Weight) Validate() error {
	return w.guard.Validate(ErrWeightIsNotConstructed)
}

// Kg returns the weight in kilograms.
func (w Weight) Kg() float64 {
	return w.kg
}

// IsEqual compares two constructed weights.
func (w Weight) IsEqual(other Weight) bool {
	return w.kg == other.kg
}

func (w Weight) String() string {
	return fmt.Sprintf("%.2f kg", w.kg)
}

// setKg uses a pointer receiver so the constructor can validate in place.
func (w *Weight) setKg(kg float64) error {
	if math.IsNaN(kg) || math.IsInf(kg, 0) || kg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weightKg", ErrWeightIsNotPositive)
	}

	w.kg = kg
	return nil
}
