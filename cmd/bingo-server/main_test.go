package main

import (
	"context"
	"testing"
)

func TestOpenStoreWithoutDSN(t *testing.T) {
	if st := openStore(context.Background(), ""); st != nil {
		t.Fatalf("expected nil store without DSN")
	}
}
