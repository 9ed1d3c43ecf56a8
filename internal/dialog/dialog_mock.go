package dialog

import "github.com/stretchr/testify/mock"

// DialogMock is a testify mock for Dialog.
type DialogMock struct {
	mock.Mock
}

func (m *DialogMock) Input(title, message string) (string, error) {
	args := m.Called(title, message)
	return args.String(0), args.Error(1)
}

func (m *DialogMock) Message(title, message string, level Level) {
	m.Called(title, message, level)
}

func (m *DialogMock) Choose(title, message string, options []string) (int, error) {
	args := m.Called(title, message, options)
	return args.Int(0), args.Error(1)
}
