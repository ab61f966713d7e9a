package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	pdfparser "github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino/components/document/parser"
	docx "github.com/fumiama/go-docx"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/lumenchat/wa-bridge/internal/utils"
)

var supportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".pdf":  true,
	".docx": true,
	".xlsx": true,
	".xls":  true,
}

// knowledge content is static configuration: loaded once per directory,
// invalidated only by process restart.
var cache sync.Map // directory path -> string

// LoadDirectory reads every supported file in dir and concatenates the
// extracted text, each file's contribution preceded by a filename header.
// A missing or empty directory yields "", never an error; files that fail to
// parse are skipped with a log entry.
func LoadDirectory(ctx context.Context, dir string) string {
	if dir == "" {
		return ""
	}
	if cached, ok := cache.Load(dir); ok {
		return cached.(string)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		utils.Zlog.Warn("Knowledge base directory not readable",
			zap.String("dir", dir),
			zap.Error(err))
		cache.Store(dir, "")
		return ""
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var b strings.Builder
	loaded := 0
	for _, name := range names {
		ext := strings.ToLower(filepath.Ext(name))
		if !supportedExtensions[ext] {
			utils.Zlog.Debug("Skipping unsupported knowledge base file",
				zap.String("file", name))
			continue
		}
		path := filepath.Join(dir, name)
		text, err := extractText(ctx, path, ext)
		if err != nil {
			utils.Zlog.Error("Failed to extract knowledge base file",
				zap.String("file", path),
				zap.Error(err))
			continue
		}
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "--- Content from: %s ---\n%s\n\n", name, text)
		loaded++
	}

	content := b.String()
	utils.Zlog.Info("Knowledge base loaded",
		zap.String("dir", dir),
		zap.Int("files", loaded),
		zap.Int("chars", len(content)))
	cache.Store(dir, content)
	return content
}

// LoadFile extracts text from a single supported file, used for system prompt
// files. Returns "" when the path is empty, missing or unsupported.
func LoadFile(ctx context.Context, path string) string {
	if path == "" {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		utils.Zlog.Warn("Unsupported file type for text extraction",
			zap.String("file", path))
		return ""
	}
	text, err := extractText(ctx, path, ext)
	if err != nil {
		utils.Zlog.Warn("Failed to extract text from file",
			zap.String("file", path),
			zap.Error(err))
		return ""
	}
	return text
}

func extractText(ctx context.Context, path, ext string) (string, error) {
	switch ext {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".pdf":
		return extractPDF(ctx, path)
	case ".docx":
		return extractDocx(path)
	case ".xlsx", ".xls":
		return extractSpreadsheet(path)
	default:
		return "", fmt.Errorf("unsupported extension %q", ext)
	}
}

func extractPDF(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	p, err := pdfparser.NewPDFParser(ctx, &pdfparser.Config{})
	if err != nil {
		return "", fmt.Errorf("creating pdf parser: %w", err)
	}
	docs, err := p.Parse(ctx, f, parser.WithURI(path))
	if err != nil {
		return "", fmt.Errorf("parsing pdf: %w", err)
	}
	var b strings.Builder
	for _, d := range docs {
		b.WriteString(d.Content)
	}
	return b.String(), nil
}

func extractDocx(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("parsing docx: %w", err)
	}

	var lines []string
	for _, it := range doc.Document.Body.Items {
		switch v := it.(type) {
		case *docx.Paragraph:
			lines = append(lines, v.String())
		case *docx.Table:
			lines = append(lines, v.String())
		}
	}
	return strings.Join(lines, "\n"), nil
}

func extractSpreadsheet(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		fmt.Fprintf(&b, "Sheet: %s\n", sheet)
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String()), nil
}
