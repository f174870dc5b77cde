package storage

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
)

func readLines(t *testing.T, filename string) []map[string]any {
	t.Helper()

	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("open %s: %v", filename, err)
	}
	defer file.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var line map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestReportWriter_WritesJSONLines(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "reports.jsonl")

	writer, err := NewReportWriter(filename)
	if err != nil {
		t.Fatalf("NewReportWriter: %v", err)
	}

	reports := []any{
		&entity.PhoneReport{Target: entity.Target{Kind: entity.KindPhone, Value: "+14155551234"}},
		&entity.UsernameReport{Target: entity.Target{Kind: entity.KindUsername, Value: "alice"}},
	}
	for _, r := range reports {
		if err := writer.Write(r); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := writer.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, filename)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	target := lines[1]["target"].(map[string]any)
	if target["value"] != "alice" {
		t.Errorf("second report target = %v, want alice", target["value"])
	}
}

func TestReportWriter_Appends(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "reports.jsonl")

	for i := 0; i < 2; i++ {
		writer, err := NewReportWriter(filename)
		if err != nil {
			t.Fatalf("NewReportWriter: %v", err)
		}
		_ = writer.Write(map[string]int{"run": i})
		_ = writer.Close()
	}

	if lines := readLines(t, filename); len(lines) != 2 {
		t.Errorf("got %d lines, want 2", len(lines))
	}
}

func TestLogWriter_TagsEntries(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lookup.jsonl")

	writer, err := NewLogWriter(filename)
	if err != nil {
		t.Fatalf("NewLogWriter: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = writer.WriteDNSLog(&entity.DNSMessage{Domain: "example.com", RecordType: "A"})
		}()
	}
	wg.Wait()

	_ = writer.WriteHTTPLog(map[string]string{"url": "http://ip-api.com/json/8.8.8.8"})
	_ = writer.WriteWhoisLog(&entity.WhoisMessage{Domain: "example.com", Server: "whois.verisign-grs.com"})
	_ = writer.WriteLookupLog(&entity.LookupLog{Kind: entity.LookupGeolocation, Query: "8.8.8.8", OK: true})
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, filename)
	if len(lines) != 13 {
		t.Fatalf("got %d lines, want 13", len(lines))
	}

	counts := map[string]int{}
	for _, line := range lines {
		counts[line["type"].(string)]++
	}
	if counts["dns"] != 10 || counts["http"] != 1 || counts["whois"] != 1 || counts["lookup"] != 1 {
		t.Errorf("type counts = %v", counts)
	}
}

func TestNopWriters(t *testing.T) {
	reports, err := NewReportWriter("")
	if err != nil {
		t.Fatalf("NewReportWriter: %v", err)
	}
	if _, ok := reports.(NopReportWriter); !ok {
		t.Errorf("NewReportWriter(\"\") = %T, want NopReportWriter", reports)
	}

	logs, err := NewLogWriter("")
	if err != nil {
		t.Fatalf("NewLogWriter: %v", err)
	}
	if err := logs.WriteDNSLog(nil); err != nil {
		t.Errorf("NopLogWriter.WriteDNSLog: %v", err)
	}
}
