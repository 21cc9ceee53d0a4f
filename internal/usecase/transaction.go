package usecase

import (
	"context"
	"fmt"
)

// Transaction executa passos remotos em sequência e para no primeiro erro.
// Não há compensação: o store remoto não oferece exclusão, então o erro
// informa quais passos já foram confirmados para quem precisar reconciliar.
type Transaction struct {
	operations []Operation
}

type Operation struct {
	Name string
	Fn   func(context.Context) error
}

type StepError struct {
	Step      string
	Completed []string
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("operation '%s' failed: %v (%d operations already applied)", e.Step, e.Err, len(e.Completed))
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

func (t *Transaction) AddOperation(name string, fn func(context.Context) error) {
	t.operations = append(t.operations, Operation{name, fn})
}

func (t *Transaction) Execute(ctx context.Context) error {
	var done []string
	for _, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			return &StepError{Step: op.Name, Completed: done, Err: err}
		}
		done = append(done, op.Name)
	}
	return nil
}
