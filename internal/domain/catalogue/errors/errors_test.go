package errors

import (
	"fmt"
	"testing"
)

func TestErrorHelpers(t *testing.T) {
	err := NewInvalidArgument("bad")
	if !IsInvalidArgument(err) {
		t.Fatal("expected invalid argument")
	}

	wrapped := WrapInternal(err, "ctx")
	if !IsInternal(wrapped) {
		t.Fatal("expected internal")
	}
}

func TestStoreUnavailableIsNotATokenState(t *testing.T) {
	err := WrapStoreUnavailable(fmt.Errorf("dial tcp: refused"))
	if !IsStoreUnavailable(err) {
		t.Fatal("expected store unavailable")
	}
	if IsInvalidToken(err) || IsTokenUsedOrUnknown(err) || IsExpiredToken(err) {
		t.Fatal("store unavailability must not look like a token state")
	}
}
