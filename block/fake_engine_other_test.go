//go:build !unix

package block

type customIOCall struct{}
