package e

import "fmt"

var (
	// Ошибки конфигурации
	ErrHostRequired         = fmt.Errorf("HOST environment variable is required")
	ErrAPIKeyRequired       = fmt.Errorf("API_KEY environment variable is required")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// Ошибки с векторами
	ErrVectorSizeMismatch = fmt.Errorf("vector size mismatch")

	// Ошибки коллекций
	ErrCollectionAlreadyExists = fmt.Errorf("collection already exists")
	ErrCollectionNotFound      = fmt.Errorf("collection not found")

	// Ошибки шагов пробы
	ErrStepFailed = fmt.Errorf("probe step failed")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// StepError помечает ошибку именем шага пробы, на котором она произошла.
type StepError struct {
	Step string
	Err  error
}

func (s *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", s.Step, s.Err)
}

func (s *StepError) Unwrap() []error {
	return []error{ErrStepFailed, s.Err}
}

func NewStepError(step string, err error) *StepError {
	return &StepError{
		Step: step,
		Err:  err,
	}
}
