package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/farol"
	"github.com/agentstation/farol/pkg/constants"
	"github.com/agentstation/farol/pkg/policy"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	FarolFunc        func(opts ...farol.Option) (farol.Farol, error)
	PolicyFunc       func() (policy.Table, error)
	FilesFunc        func() Files
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Farol builds a Farol using the mock function, or from opts alone.
func (m *Mock) Farol(opts ...farol.Option) (farol.Farol, error) {
	if m.FarolFunc != nil {
		return m.FarolFunc(opts...)
	}
	return farol.New(opts...)
}

// Policy returns the mock policy or the built-in one.
func (m *Mock) Policy() (policy.Table, error) {
	if m.PolicyFunc != nil {
		return m.PolicyFunc()
	}
	return policy.Default(), nil
}

// Files returns the mock paths or the defaults.
func (m *Mock) Files() Files {
	if m.FilesFunc != nil {
		return m.FilesFunc()
	}
	return Files{
		Include: constants.DefaultIncludePath,
		Exclude: constants.DefaultExcludePath,
		Ledger:  constants.DefaultLedgerPath,
	}
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
