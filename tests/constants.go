package tests

import (
	"errors"
	"time"
)

const (
	NonExistingID         = "n0n-3x1st1ng-1d"
	DefaultSessionID      = "d3f4ul7-s3ss10n-1d"
	DefaultCPF            = "123"
	AnotherCPF            = "456"
	DefaultClientName     = "Ana"
	AnotherClientName     = "Bea"
	DefaultProductCode    = "P1"
	AnotherProductCode    = "P2"
	DefaultProductValue   = 10.0
	AnotherProductValue   = 15.0
	DefaultProductName    = "Caneta"
	DefaultMeasurement    = "testMeasurement"
	ShortTimeout          = 100 * time.Millisecond
	DefaultTestTimeout    = 10 * time.Second
	DefaultAuthToken      = "s3cr3t-t0k3n"
	DefaultRandomSeed     = 42
	DefaultOperationCount = 500
)

var ErrDefault = errors.New("an error occurred")
