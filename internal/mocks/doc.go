// Package mocks provides shared mock implementations for tests.
//
// The in-memory stores behave like the Postgres stores closely enough for
// service and handler tests: they return the same store errors and are safe
// for concurrent use, since notification delivery runs on worker goroutines.
// Each exported method can be overridden through its Fn field.
//
//	users := mocks.NewMockUserStore()
//	users.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
//	    return nil, errors.New("database down")
//	}
//
// TestifyMockUserStore is the testify/mock variant for tests that assert on
// exact call arguments.
package mocks
