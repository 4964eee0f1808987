package lecture

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestStageError_matches_kind_and_cause(t *testing.T) {
	err := Fail(StageAssembled, ErrAssembly, io.ErrUnexpectedEOF)

	if !errors.Is(err, ErrAssembly) {
		t.Error("expected errors.Is(err, ErrAssembly)")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("expected errors.Is(err, io.ErrUnexpectedEOF)")
	}
	if errors.Is(err, ErrRender) {
		t.Error("unexpected match on ErrRender")
	}

	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageAssembled {
		t.Errorf("errors.As: got %+v", se)
	}
	if !strings.Contains(err.Error(), "assembled") {
		t.Errorf("message should name the stage: %s", err)
	}
}

func TestStage_Terminal(t *testing.T) {
	if !StageDone.Terminal() || !StageFailed.Terminal() {
		t.Error("done and failed are terminal")
	}
	if StageRendered.Terminal() {
		t.Error("rendered is not terminal")
	}
}
