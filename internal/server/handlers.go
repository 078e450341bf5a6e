package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/lucasefe/daxgen"
	"github.com/lucasefe/daxgen/extract"
	"github.com/lucasefe/daxgen/generator"
	"github.com/lucasefe/daxgen/profile"
)

const multipartMemory = 8 << 20

// analysisOptions are accepted both in JSON bodies and, when absent there, as
// query parameters.
type analysisOptions struct {
	TableName      string   `json:"table_name"`
	RuleSet        string   `json:"rule_set"`
	Category       string   `json:"category"`
	ExcludeColumns []string `json:"exclude_columns"`
}

type columnRequest struct {
	Name        string `json:"name"`
	StorageType string `json:"storage_type"`
	NullCount   int    `json:"null_count"`
}

type analyzeRequest struct {
	analysisOptions
	Columns []columnRequest `json:"columns"`
}

type textRequest struct {
	analysisOptions
	Description string `json:"description"`
}

type exportRequest struct {
	TableName string              `json:"table_name"`
	Category  string              `json:"category"`
	Measures  []generator.Measure `json:"measures"`
}

func (o *analysisOptions) fillFromQuery(r *http.Request) {
	q := r.URL.Query()
	if o.TableName == "" {
		o.TableName = q.Get("table_name")
	}
	if o.RuleSet == "" {
		o.RuleSet = q.Get("rule_set")
	}
	if o.Category == "" {
		o.Category = q.Get("category")
	}
	if len(o.ExcludeColumns) == 0 {
		o.ExcludeColumns = q["exclude"]
	}
}

// analysisConfig turns request options into a facade config. fallbackTable is
// applied when the request names no table; sources that carry their own name
// pass "".
func (s *Server) analysisConfig(o analysisOptions, fallbackTable string) (*daxgen.Config, error) {
	ruleSet := s.cfg.RuleSet()
	if o.RuleSet != "" {
		var ok bool
		if ruleSet, ok = generator.ParseRuleSet(o.RuleSet); !ok {
			return nil, fmt.Errorf("invalid rule_set %q, must be 'minimal' or 'extended'", o.RuleSet)
		}
	}

	var category generator.Category
	if o.Category != "" {
		var ok bool
		if category, ok = generator.ParseCategory(o.Category); !ok {
			return nil, fmt.Errorf("unknown category %q", o.Category)
		}
	}

	table := o.TableName
	if table == "" {
		table = fallbackTable
	}

	return &daxgen.Config{
		TableName:      table,
		RuleSet:        ruleSet,
		Category:       category,
		ExcludeColumns: o.ExcludeColumns,
		SampleSize:     s.cfg.Analysis.SampleSize,
	}, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes))
	if err != nil {
		failure(w, r, err)
		return false
	}
	if err := sonic.Unmarshal(body, v); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	success(w, map[string]any{
		"status":     "ok",
		"extraction": s.extractor != nil,
	})
}

// analyzeColumns handles a schema given as column names and storage types.
func (s *Server) analyzeColumns(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	req.fillFromQuery(r)

	cfg, err := s.analysisConfig(req.analysisOptions, s.cfg.Analysis.DefaultTable)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	columns := make([]profile.StorageColumn, 0, len(req.Columns))
	for _, c := range req.Columns {
		columns = append(columns, profile.StorageColumn{
			Name:        c.Name,
			StorageType: c.StorageType,
			NullCount:   c.NullCount,
		})
	}

	result, err := daxgen.AnalyzeStorageTypes(columns, cfg)
	if err != nil {
		failure(w, r, err)
		return
	}
	success(w, result)
}

// analyzeExtraction handles a payload in the extraction contract, as a model
// would return it.
func (s *Server) analyzeExtraction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes))
	if err != nil {
		failure(w, r, err)
		return
	}

	var opts analysisOptions
	opts.fillFromQuery(r)
	cfg, err := s.analysisConfig(opts, "")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	payload, err := extract.Parse(body)
	if err != nil {
		failure(w, r, err)
		return
	}

	result, err := daxgen.AnalyzeExtraction(payload, cfg)
	if err != nil {
		failure(w, r, err)
		return
	}
	success(w, result)
}

// analyzeFile handles a multipart CSV or XLSX upload in the "file" field.
func (s *Server) analyzeFile(w http.ResponseWriter, r *http.Request) {
	if !s.parseMultipart(w, r) {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "missing file field")
		return
	}
	defer file.Close()

	opts := multipartOptions(r)
	cfg, err := s.analysisConfig(opts, s.cfg.Analysis.DefaultTable)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	cfg.Sheet = r.FormValue("sheet")

	result, err := daxgen.AnalyzeReader(header.Filename, file, cfg)
	if err != nil {
		failure(w, r, err)
		return
	}
	success(w, result)
}

// analyzeImage handles a multipart image upload in the "image" field.
func (s *Server) analyzeImage(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		failure(w, r, errNoExtractor)
		return
	}

	if !s.parseMultipart(w, r) {
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		badRequest(w, "missing image field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		failure(w, r, err)
		return
	}
	if len(data) == 0 {
		badRequest(w, "empty image")
		return
	}

	cfg, err := s.analysisConfig(multipartOptions(r), "")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	result, err := daxgen.AnalyzeImage(r.Context(), s.extractor, data, imageType(header.Header.Get("Content-Type"), data), cfg)
	if err != nil {
		failure(w, r, err)
		return
	}
	success(w, result)
}

// analyzeText handles a free-text description of a table.
func (s *Server) analyzeText(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		failure(w, r, errNoExtractor)
		return
	}

	var req textRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Description == "" {
		badRequest(w, "description is required")
		return
	}
	req.fillFromQuery(r)

	cfg, err := s.analysisConfig(req.analysisOptions, "")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	result, err := daxgen.AnalyzeText(r.Context(), s.extractor, req.Description, cfg)
	if err != nil {
		failure(w, r, err)
		return
	}
	success(w, result)
}

// export renders a measure catalog as the plain-text download.
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Category == "" {
		req.Category = r.URL.Query().Get("category")
	}

	measures := req.Measures
	if req.Category != "" {
		category, ok := generator.ParseCategory(req.Category)
		if !ok {
			badRequest(w, fmt.Sprintf("unknown category %q", req.Category))
			return
		}
		measures = generator.FilterByCategory(measures, category)
	}

	table := req.TableName
	if table == "" {
		table = s.cfg.Analysis.DefaultTable
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": daxgen.ExportFileName(table),
	}))
	w.WriteHeader(http.StatusOK)
	w.Write(generator.RenderMeasures(measures))
}

func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			failure(w, r, err)
		} else {
			badRequest(w, "invalid multipart form")
		}
		return false
	}
	return true
}

// multipartOptions reads the options from form fields. r.Form also holds the
// query parameters.
func multipartOptions(r *http.Request) analysisOptions {
	return analysisOptions{
		TableName:      r.FormValue("table_name"),
		RuleSet:        r.FormValue("rule_set"),
		Category:       r.FormValue("category"),
		ExcludeColumns: r.Form["exclude"],
	}
}

// imageType prefers the declared part type and sniffs the content otherwise.
func imageType(declared string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(data)
}
