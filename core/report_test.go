package core

import (
	"bytes"
	"strings"
	"testing"
)

func TestReporterReportsDedupCounts(t *testing.T) {
	engine := NewEngine()
	var out, logBuf bytes.Buffer
	reporter := NewReporter(engine, 0, &out, &logBuf)

	engine.Apply(1)
	engine.Apply(1)
	engine.Apply(2)

	if err := reporter.Fire(); err != nil {
		t.Fatalf("Fire returned error: %v", err)
	}

	wantLine := "Received 2 unique numbers, 1 duplicates. Unique total: 2\n"
	if out.String() != wantLine {
		t.Fatalf("report line = %q, want %q", out.String(), wantLine)
	}

	logged := logBuf.String()
	if !strings.Contains(logged, "000000001") || !strings.Contains(logged, "000000002") {
		t.Fatalf("log buffer missing expected entries: %q", logged)
	}
}

func TestReporterResetsPeriodCountersNotCumulative(t *testing.T) {
	engine := NewEngine()
	var out, logBuf bytes.Buffer
	reporter := NewReporter(engine, 0, &out, &logBuf)

	engine.Apply(10)
	if err := reporter.Fire(); err != nil {
		t.Fatal(err)
	}
	out.Reset()

	// no new traffic this period
	if err := reporter.Fire(); err != nil {
		t.Fatal(err)
	}
	want := "Received 0 unique numbers, 0 duplicates. Unique total: 1\n"
	if out.String() != want {
		t.Fatalf("second report = %q, want %q", out.String(), want)
	}
}

func TestReporterSkipsOverlappingFire(t *testing.T) {
	engine := NewEngine()
	var out, logBuf bytes.Buffer
	reporter := NewReporter(engine, 0, &out, &logBuf)

	reporter.busy = 1 // simulate a fire already in progress
	if err := reporter.Fire(); err != nil {
		t.Fatalf("Fire returned error: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output while busy, got %q", out.String())
	}
}

func TestReporterDuplicatePairAcrossConnections(t *testing.T) {
	// Two concurrent connections each send 000000005 once; the second
	// delivery is the duplicate regardless of which connection it arrived on.
	engine := NewEngine()
	var out, logBuf bytes.Buffer
	reporter := NewReporter(engine, 0, &out, &logBuf)

	engine.Apply(5)
	engine.Apply(5)

	if err := reporter.Fire(); err != nil {
		t.Fatal(err)
	}
	want := "Received 1 unique numbers, 1 duplicates. Unique total: 0\n"
	if out.String() != want {
		t.Fatalf("report = %q, want %q", out.String(), want)
	}
	if engine.IndexUniqueCount() != 0 {
		t.Fatalf("key 5 should have transitioned to duplicated, leaving 0 unique keys")
	}
}
