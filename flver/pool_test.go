package flver

import (
	"testing"

	"github.com/nex3/SoulsFormats/errors"
)

func TestArenaClaim(t *testing.T) {
	a := newArena("widget", []string{"a", "b", "c", "d", "e"})

	// Claims may arrive in any order, including within one owner's list.
	for _, idx := range []int{1, 0, 4, 2} {
		v, err := a.claim(idx)
		if err != nil {
			t.Fatalf("claim(%d): %v", idx, err)
		}
		if want := []string{"a", "b", "c", "d", "e"}[idx]; v != want {
			t.Errorf("claim(%d) = %q, want %q", idx, v, want)
		}
	}

	left := a.leftover()
	if len(left) != 1 || left[0] != 3 {
		t.Errorf("leftover() = %v, want [3]", left)
	}
}

func TestArenaDoubleClaim(t *testing.T) {
	a := newArena("widget", []string{"a", "b"})
	if _, err := a.claim(0); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	_, err := a.claim(0)
	var merr MissingReferenceError
	if !errors.As(err, &merr) {
		t.Fatalf("second claim = %v, want MissingReferenceError", err)
	}
	if merr.Pool != "widget" || merr.Index != 0 {
		t.Errorf("error = %+v, want pool widget index 0", merr)
	}
}

func TestArenaOutOfRange(t *testing.T) {
	a := newArena("widget", []string{"a"})
	for _, idx := range []int{-1, 1, 100} {
		if _, err := a.claim(idx); err == nil {
			t.Errorf("claim(%d) succeeded, want error", idx)
		}
	}
}

func TestArenaEmptyLeftover(t *testing.T) {
	a := newArena("widget", []string{"a"})
	if _, err := a.claim(0); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if left := a.leftover(); left != nil {
		t.Errorf("leftover() = %v, want nil", left)
	}
}
