package review

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/nf-osi/nf-research-tools-schema-sub001/pkg/types"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("subprocess tests require a POSIX shell")
	}
}

func TestCommandReviewer(t *testing.T) {
	skipWithoutShell(t)

	// The stub collaborator drains the payload and emits a fixed verdict
	// document.
	script := `cat >/dev/null; printf 'verdicts:\n- {name: ST88-14, type: Cell Line, verdict: Accept, confidence: 0.9}\n'`
	r := &CommandReviewer{Command: "sh", Args: []string{"-c", script}, Timeout: 30 * time.Second}

	item := testItem("12345")
	raw, err := r.Review(context.Background(), BuildRequest(item.Record, item.Mentions))
	if err != nil {
		t.Fatalf("Review: %v", err)
	}

	result, err := ParseResponse("12345", raw, item.Mentions)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(result.Verdicts) != 1 || result.Verdicts[0].Verdict != types.VerdictAccept {
		t.Errorf("verdicts = %+v", result.Verdicts)
	}
}

func TestCommandReviewerNonZeroExit(t *testing.T) {
	skipWithoutShell(t)

	r := &CommandReviewer{Command: "sh", Args: []string{"-c", `echo "quota exceeded" >&2; exit 3`}, Timeout: 30 * time.Second}
	_, err := r.Review(context.Background(), Request{PMID: "12345"})
	if err == nil {
		t.Fatal("expected failure for non-zero exit")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error %q does not carry stderr", err)
	}
}

func TestCommandReviewerTimeout(t *testing.T) {
	skipWithoutShell(t)

	r := &CommandReviewer{Command: "sh", Args: []string{"-c", "sleep 10"}, Timeout: 100 * time.Millisecond}
	start := time.Now()
	_, err := r.Review(context.Background(), Request{PMID: "12345"})
	if err == nil {
		t.Fatal("expected timeout failure")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error %q is not a timeout", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout did not bound the call")
	}
}
