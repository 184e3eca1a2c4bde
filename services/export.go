package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"knowledgebase-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ContentLister lists documents for export. Satisfied by the Mongo store.
type ContentLister interface {
	ListArticles(ctx context.Context, approvedOnly bool) ([]models.Article, error)
	ListProfiles(ctx context.Context, approvedOnly bool) ([]models.Profile, error)
}

// ExportService builds Excel workbooks of knowledge-base content for
// editorial review.
type ExportService struct {
	docs ContentLister
}

func NewExportService(docs ContentLister) *ExportService {
	return &ExportService{docs: docs}
}

// StreamExcel writes an xlsx workbook for the requested collection directly
// to the HTTP response. Drafts are included; the export is an editorial
// tool, not a public surface.
func (es *ExportService) StreamExcel(c *gin.Context, collection models.Collection) error {
	f := excelize.NewFile()
	defer f.Close()

	var filename string
	var err error
	switch collection {
	case models.CollectionArticles:
		filename = "articles_export.xlsx"
		err = es.writeArticlesSheet(c.Request.Context(), f)
	case models.CollectionProfiles:
		filename = "profiles_export.xlsx"
		err = es.writeProfilesSheet(c.Request.Context(), f)
	default:
		return fmt.Errorf("unsupported collection: %s", collection)
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Length", strconv.Itoa(buf.Len()))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	return nil
}

func (es *ExportService) writeArticlesSheet(ctx context.Context, f *excelize.File) error {
	articles, err := es.docs.ListArticles(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to fetch articles: %w", err)
	}

	sheetName := "Articles"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Slug", "Title", "Summary", "Parent Slug", "Audience", "Status", "URL", "Updated At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIdx, article := range articles {
		row := rowIdx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), article.Slug)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), article.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), article.Summary)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), article.ParentSlug)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), article.Audience)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), article.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), article.URL())
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), article.UpdatedAt.Format(time.RFC3339))
	}

	for i := range headers {
		col := fmt.Sprintf("%c:%c", 'A'+i, 'A'+i)
		f.SetColWidth(sheetName, col, col, 20)
	}
	return nil
}

func (es *ExportService) writeProfilesSheet(ctx context.Context, f *excelize.File) error {
	profiles, err := es.docs.ListProfiles(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to fetch profiles: %w", err)
	}

	sheetName := "Profiles"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Slug", "Name", "Job Title", "Clients", "Email", "Status", "URL", "Updated At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIdx, profile := range profiles {
		row := rowIdx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), profile.Slug)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), profile.FullName())
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), profile.JobTitle)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), strings.Join(profile.Clients, ", "))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), profile.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), profile.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), profile.URL())
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), profile.UpdatedAt.Format(time.RFC3339))
	}

	for i := range headers {
		col := fmt.Sprintf("%c:%c", 'A'+i, 'A'+i)
		f.SetColWidth(sheetName, col, col, 20)
	}
	return nil
}
