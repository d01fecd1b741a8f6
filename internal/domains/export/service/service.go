package service

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"haven/infras/otel"
	bookingModel "haven/internal/domains/booking/model"
	bookingRepo "haven/internal/domains/booking/repository"
	"haven/internal/domains/export/model/dto"
	listingModel "haven/internal/domains/listing/model"
	listingRepo "haven/internal/domains/listing/repository"
	userModel "haven/internal/domains/user/model"
	userRepo "haven/internal/domains/user/repository"
	"haven/shared"
	"haven/shared/constant"
	gDto "haven/shared/dto"
	"haven/shared/failure"
	"haven/shared/timezone"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	EntityBookings = "bookings"
	EntityUsers    = "users"
	EntityListings = "listings"

	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

type Export interface {
	Export(ctx context.Context, entity, format string) (dto.File, error)
}

type serviceImpl struct {
	bookingRepo bookingRepo.Booking
	userRepo    userRepo.User
	listingRepo listingRepo.Listing
	otel        otel.Otel
}

func New(bookingRepo bookingRepo.Booking, userRepo userRepo.User, listingRepo listingRepo.Listing, otel otel.Otel) Export {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		otel:        otel,
	}
}

// Export renders the full stored collection. Either the whole file is
// produced or the caller gets an error, never partial output.
func (s *serviceImpl) Export(ctx context.Context, entity, format string) (res dto.File, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Export")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = shared.RequireAdmin(ctx); err != nil {
		return res, err // nolint:wrapcheck
	}

	scope.SetAttributes(map[string]any{
		"export.entity": entity,
		"export.format": format,
	})

	params := gDto.QueryParams{
		SortBy:  constant.FieldCreatedAt,
		SortDir: constant.DefaultValueSortDir,
	}

	switch entity {
	case EntityBookings:
		bookings, repoErr := s.bookingRepo.GetAll(ctx, params, gDto.FilterGroup{})
		if repoErr != nil {
			log.Error().Err(repoErr).Msg("failed to fetch bookings for export")

			return res, fmt.Errorf("failed to fetch bookings for export: %w", repoErr)
		}

		return s.renderBookings(bookings, format)
	case EntityUsers:
		users, repoErr := s.userRepo.GetAll(ctx, params, gDto.FilterGroup{})
		if repoErr != nil {
			log.Error().Err(repoErr).Msg("failed to fetch users for export")

			return res, fmt.Errorf("failed to fetch users for export: %w", repoErr)
		}

		return s.renderUsers(users, format)
	case EntityListings:
		listings, repoErr := s.listingRepo.GetAll(ctx, params, gDto.FilterGroup{})
		if repoErr != nil {
			log.Error().Err(repoErr).Msg("failed to fetch listings for export")

			return res, fmt.Errorf("failed to fetch listings for export: %w", repoErr)
		}

		return s.renderListings(listings, format)
	default:
		return res, failure.BadRequestFromString("unknown export entity") // nolint:wrapcheck
	}
}

func (s *serviceImpl) renderBookings(bookings []bookingModel.Booking, format string) (dto.File, error) {
	headers := []string{
		"Booking ID", "User Email", "Listing Name", "Listing Price", "Status",
		"Booking Date", "Approval Date", "Completion Date", "User Notes", "Admin Notes",
	}

	rows := make([][]string, len(bookings))
	for i, b := range bookings {
		rows[i] = []string{
			b.ID,
			b.UserEmail,
			b.ListingName,
			b.ListingPrice.String(),
			b.Status,
			formatDate(b.BookingDate),
			formatOptionalDate(b.ApprovalDate),
			formatOptionalDate(b.CompletionDate),
			b.Notes,
			b.AdminNotes,
		}
	}

	// Text columns quote-wrapped, numeric and date columns bare.
	quoted := []int{1, 2, 8, 9}

	pdfSpec := pdfLayout{
		title:     "Bookings Report",
		headers:   []string{"ID", "User", "Listing", "Price", "Status", "Date"},
		colWidths: []float64{25, 40, 50, 20, 25, 30},
		row: func(i int) []string {
			b := bookings[i]

			return []string{
				truncate(b.ID, 8),
				truncate(b.UserEmail, 15),
				truncate(b.ListingName, 20),
				"$" + b.ListingPrice.String(),
				b.Status,
				formatDate(b.BookingDate),
			}
		},
		count: len(bookings),
	}

	return render(EntityBookings, "Bookings", format, headers, rows, quoted, pdfSpec)
}

func (s *serviceImpl) renderUsers(users []userModel.User, format string) (dto.File, error) {
	headers := []string{"User ID", "Email", "Display Name", "Role", "Created At", "Updated At"}

	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{
			u.ID,
			u.Email,
			displayName(u),
			u.Role,
			formatDate(u.CreatedAt),
			formatDate(u.ModifiedAt),
		}
	}

	quoted := []int{1, 2}

	pdfSpec := pdfLayout{
		title:     "Users Report",
		headers:   []string{"Email", "Name", "Role", "Created"},
		colWidths: []float64{60, 50, 20, 40},
		row: func(i int) []string {
			u := users[i]

			name := displayName(u)
			if name == constant.Empty {
				name = "No Name"
			}

			return []string{
				truncate(u.Email, 25),
				truncate(name, 20),
				u.Role,
				formatDate(u.CreatedAt),
			}
		},
		count: len(users),
	}

	return render(EntityUsers, "Users", format, headers, rows, quoted, pdfSpec)
}

func (s *serviceImpl) renderListings(listings []listingModel.Listing, format string) (dto.File, error) {
	headers := []string{"Listing ID", "Name", "Description", "Price", "Category", "Status", "Created At", "Updated At"}

	rows := make([][]string, len(listings))
	for i, l := range listings {
		rows[i] = []string{
			l.ID,
			l.Name,
			l.Description,
			l.Price.String(),
			l.Category,
			l.Status,
			formatDate(l.CreatedAt),
			formatDate(l.ModifiedAt),
		}
	}

	quoted := []int{1, 2}

	pdfSpec := pdfLayout{
		title:     "Listings Report",
		headers:   []string{"Name", "Category", "Price", "Status"},
		colWidths: []float64{60, 40, 30, 30},
		row: func(i int) []string {
			l := listings[i]

			return []string{
				truncate(l.Name, 25),
				truncate(l.Category, 15),
				"$" + l.Price.String(),
				l.Status,
			}
		},
		count: len(listings),
	}

	return render(EntityListings, "Listings", format, headers, rows, quoted, pdfSpec)
}

func render(entity, sheet, format string, headers []string, rows [][]string, quoted []int, layout pdfLayout) (dto.File, error) {
	switch format {
	case FormatCSV:
		return dto.File{
			Name:        entity + ".csv",
			ContentType: constant.ContentTypeCSV,
			Data:        renderCSV(headers, rows, quoted),
		}, nil
	case FormatExcel:
		data, err := renderExcel(sheet, headers, rows)
		if err != nil {
			return dto.File{}, err
		}

		return dto.File{
			Name:        entity + ".xlsx",
			ContentType: constant.ContentTypeXLSX,
			Data:        data,
		}, nil
	case FormatPDF:
		data, err := renderPDF(layout)
		if err != nil {
			return dto.File{}, err
		}

		return dto.File{
			Name:        entity + ".pdf",
			ContentType: constant.ContentTypePDF,
			Data:        data,
		}, nil
	default:
		return dto.File{}, failure.BadRequestFromString("unknown export format") // nolint:wrapcheck
	}
}

func renderCSV(headers []string, rows [][]string, quoted []int) []byte {
	var sb strings.Builder

	sb.WriteString(strings.Join(headers, ","))

	for _, row := range rows {
		cells := make([]string, len(row))

		for i, cell := range row {
			if slices.Contains(quoted, i) {
				cells[i] = quote(cell)
			} else {
				cells[i] = cell
			}
		}

		sb.WriteString("\n")
		sb.WriteString(strings.Join(cells, ","))
	}

	return []byte(sb.String())
}

func renderExcel(sheet string, headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cell name: %w", err)
		}

		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for rowIdx, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve cell name: %w", err)
			}

			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write data cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	return buf.Bytes(), nil
}

type pdfLayout struct {
	title     string
	headers   []string
	colWidths []float64
	row       func(i int) []string
	count     int
}

func renderPDF(layout pdfLayout) ([]byte, error) {
	const (
		margin     = 20.0
		lineHeight = 7.0
		pageBottom = 270.0
	)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	y := margin

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(margin, y, layout.title)
	y += 15

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(margin, y, "Generated on: "+formatDate(timezone.Now()))
	y += 10

	pdf.SetFont("Helvetica", "B", 12)

	x := margin
	for i, header := range layout.headers {
		pdf.Text(x, y, header)
		x += layout.colWidths[i]
	}

	y += lineHeight

	pdf.SetFont("Helvetica", "", 8)

	for i := range layout.count {
		if y > pageBottom {
			pdf.AddPage()

			y = margin
		}

		x = margin
		for col, value := range layout.row(i) {
			pdf.Text(x, y, value)
			x += layout.colWidths[col]
		}

		y += lineHeight
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}

	return value[:limit] + "..."
}

func formatDate(t time.Time) string {
	return timezone.Format(t, constant.ExportDateFormat)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return constant.Empty
	}

	return formatDate(*t)
}

func displayName(user userModel.User) string {
	if user.DisplayName == nil {
		return constant.Empty
	}

	return *user.DisplayName
}
