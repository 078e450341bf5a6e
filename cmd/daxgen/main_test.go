package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/fatih/color"

	"github.com/lucasefe/daxgen"
	"github.com/lucasefe/daxgen/generator"
	"github.com/lucasefe/daxgen/profile"
)

func init() {
	color.NoColor = true
}

const salesCSV = "Fecha,Region,Monto\n2024-01-01,Norte,100\n2024-02-01,Sur,250.5\n"

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ventas.csv")
	if err := os.WriteFile(path, []byte(salesCSV), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DAXGEN_LOG_LEVEL", "error")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	path := writeCSV(t)

	out, err := run(t, "analyze", path, "--table", "Ventas", "--rule-set", "minimal")
	if err != nil {
		t.Fatalf("analyze returned error: %v", err)
	}

	for _, want := range []string{
		"Tabla: Ventas",
		"Total Monto = SUM(Ventas[Monto])",
		"Conteo Distinto Region = DISTINCTCOUNT(Ventas[Region])",
		"MEDIDAS DAX (10)",
		"KPIS Y OKRS",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestAnalyzeCommandConfiguredRuleSet(t *testing.T) {
	path := writeCSV(t)
	t.Setenv("DAXGEN_ANALYSIS_RULE_SET", "minimal")

	out, err := run(t, "analyze", path)
	if err != nil {
		t.Fatalf("analyze returned error: %v", err)
	}
	if !strings.Contains(out, "MEDIDAS DAX (10)") {
		t.Errorf("configured rule set not applied:\n%s", out)
	}

	out, err = run(t, "analyze", path, "--rule-set", "extended")
	if err != nil {
		t.Fatalf("analyze returned error: %v", err)
	}
	if !strings.Contains(out, "MEDIDAS DAX (12)") {
		t.Errorf("--rule-set did not override config:\n%s", out)
	}
}

func TestAnalyzeCommandJSON(t *testing.T) {
	path := writeCSV(t)

	out, err := run(t, "analyze", path, "--format", "json", "--category", "count")
	if err != nil {
		t.Fatalf("analyze returned error: %v", err)
	}

	var decoded struct {
		Profile struct {
			TableName string `json:"table_name"`
		} `json:"profile"`
		Measures []generator.Measure `json:"measures"`
	}
	if err := sonic.UnmarshalString(out, &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if decoded.Profile.TableName != "Datos" {
		t.Errorf("table_name = %q, want %q", decoded.Profile.TableName, "Datos")
	}
	if len(decoded.Measures) != 2 {
		t.Errorf("got %d measures, want 2", len(decoded.Measures))
	}
	for _, m := range decoded.Measures {
		if m.Category != generator.Count {
			t.Errorf("measure %q has category %q, want %q", m.Name, m.Category, generator.Count)
		}
	}
}

func TestAnalyzeCommandOutputDir(t *testing.T) {
	path := writeCSV(t)
	dir := t.TempDir()

	if _, err := run(t, "analyze", path, "--table", "Ventas", "--output", dir); err != nil {
		t.Fatalf("analyze returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "medidas_dax_Ventas.txt"))
	if err != nil {
		t.Fatalf("export file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "// Total Monto\n") {
		t.Errorf("export starts with %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestAppClosesLogFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	logPath := filepath.Join(t.TempDir(), "daxgen.log")
	t.Setenv("DAXGEN_LOG_OUTPUT", "file")
	t.Setenv("DAXGEN_LOG_FILE_PATH", logPath)
	t.Setenv("DAXGEN_LOG_LEVEL", "info")

	a := &app{}
	if err := a.load(false); err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	slog.Info("analysis completed")
	if err := a.close(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}
	if err := a.close(); err != nil {
		t.Fatalf("second close returned error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "analysis completed") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestCommandErrors(t *testing.T) {
	path := writeCSV(t)
	pdf := filepath.Join(t.TempDir(), "ventas.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"missing file argument", []string{"analyze"}},
		{"invalid format", []string{"analyze", path, "--format", "yaml"}},
		{"invalid rule set", []string{"analyze", path, "--rule-set", "maximal"}},
		{"unknown category", []string{"analyze", path, "--category", "nope"}},
		{"unsupported file", []string{"analyze", pdf}},
		{"introspect without dsn", []string{"introspect", "--table", "ventas"}},
		{"extract without model", []string{"extract", "captura.png"}},
	}

	t.Setenv("DATABASE_URL", "")
	t.Setenv("DAXGEN_LLM_API_KEY", "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}

func TestExportPath(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		output string
		want   string
	}{
		{dir, filepath.Join(dir, "medidas_dax_Ventas.txt")},
		{filepath.Join(dir, "medidas.txt"), filepath.Join(dir, "medidas.txt")},
	}

	for _, tt := range tests {
		if got := exportPath(tt.output, "Ventas"); got != tt.want {
			t.Errorf("exportPath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestImageMimeType(t *testing.T) {
	tests := []struct {
		path string
		data []byte
		want string
	}{
		{"captura.png", nil, "image/png"},
		{"captura.JPG", nil, "image/jpeg"},
		{"captura", []byte("\x89PNG\r\n\x1a\n"), "image/png"},
	}

	for _, tt := range tests {
		if got := imageMimeType(tt.path, tt.data); got != tt.want {
			t.Errorf("imageMimeType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPrintResultEmpty(t *testing.T) {
	result, err := daxgen.Analyze(profile.FromStorageTypes("", nil), nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printResult(&buf, result)

	out := buf.String()
	if !strings.Contains(out, "Numéricas:   -") {
		t.Errorf("empty kinds not rendered as dash:\n%s", out)
	}
	if strings.Contains(out, "KPIS") {
		t.Errorf("unexpected insights section:\n%s", out)
	}
}

func TestPrintResultGroupsCategories(t *testing.T) {
	p := profile.FromStorageTypes("Ventas", []profile.StorageColumn{
		{Name: "Region", StorageType: "text"},
		{Name: "Monto", StorageType: "int"},
	})
	result, err := daxgen.Analyze(p, nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printResult(&buf, result)

	out := buf.String()
	if got := strings.Count(out, generator.BasicAggregation.Label()+"\n"); got != 1 {
		t.Errorf("basic aggregation header printed %d times, want 1", got)
	}
	if !strings.Contains(out, generator.AdvancedFiltering.Label()) {
		t.Errorf("missing advanced filtering header:\n%s", out)
	}
}
