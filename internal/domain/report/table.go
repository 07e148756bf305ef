package report

import (
	"strconv"
	"time"
)

// Table is the format neutral shape every report is rendered from
type Table struct {
	Title       string     `json:"title"`
	Kind        Kind       `json:"kind"`
	Columns     []string   `json:"columns"`
	Rows        [][]string `json:"rows"`
	Footer      []string   `json:"footer,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
}

func formatTime(t *time.Time, layout string) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

func percent(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 1, 64) + "%"
}

// OccupancyTable builds the occupancy report table
func OccupancyTable(rows []OccupancyRow, now time.Time) *Table {
	t := &Table{
		Title:       "Occupancy report",
		Kind:        KindOccupancy,
		Columns:     []string{"Room", "Block", "Floor", "Type", "Gender", "Capacity", "Occupancy", "Rate", "Status", "Monthly rent"},
		Rows:        make([][]string, 0, len(rows)),
		GeneratedAt: now,
	}
	var capacity, occupied int64
	for _, r := range rows {
		capacity += int64(r.Capacity)
		occupied += int64(r.Occupancy)
		t.Rows = append(t.Rows, []string{
			r.RoomNumber, r.Block, strconv.Itoa(r.Floor), r.Type, r.Gender,
			strconv.Itoa(r.Capacity), strconv.Itoa(r.Occupancy), percent(r.OccupancyRate),
			r.Status, r.MonthlyRent.StringFixed(2),
		})
	}
	t.Footer = []string{"Total", "", "", "", "",
		strconv.FormatInt(capacity, 10), strconv.FormatInt(occupied, 10), percent(Rate(occupied, capacity)), "", ""}
	return t
}

// PaymentTable builds the payments report table
func PaymentTable(rows []PaymentRow, now time.Time) *Table {
	t := &Table{
		Title:       "Payments report",
		Kind:        KindPayments,
		Columns:     []string{"Payment", "Student", "Email", "Type", "Month", "Amount", "Status", "Method", "Due", "Paid at"},
		Rows:        make([][]string, 0, len(rows)),
		GeneratedAt: now,
	}
	for _, r := range rows {
		due := r.DueDate
		t.Rows = append(t.Rows, []string{
			r.PaymentID.String(), r.StudentName, r.StudentEmail, r.Type, r.BillingMonth,
			r.Amount.StringFixed(2), r.Status, r.Method,
			formatTime(&due, "2006-01-02"), formatTime(r.PaidAt, time.RFC3339),
		})
	}
	return t
}

// StudentTable builds the students report table
func StudentTable(rows []StudentRow, now time.Time) *Table {
	t := &Table{
		Title:       "Students report",
		Kind:        KindStudents,
		Columns:     []string{"Name", "Email", "Student number", "Gender", "Status", "Room", "Booking", "Outstanding"},
		Rows:        make([][]string, 0, len(rows)),
		GeneratedAt: now,
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Name, r.Email, r.StudentNumber, r.Gender, r.Status, r.RoomNumber, r.BookingStatus,
			r.Outstanding.StringFixed(2),
		})
	}
	return t
}

// ComplaintTable builds the complaints report table
func ComplaintTable(rows []ComplaintRow, now time.Time) *Table {
	t := &Table{
		Title:       "Complaints report",
		Kind:        KindComplaints,
		Columns:     []string{"Complaint", "Student", "Room", "Category", "Priority", "Title", "Status", "Created", "Resolved"},
		Rows:        make([][]string, 0, len(rows)),
		GeneratedAt: now,
	}
	for _, r := range rows {
		created := r.CreatedAt
		t.Rows = append(t.Rows, []string{
			r.ComplaintID.String(), r.StudentName, r.RoomNumber, r.Category, r.Priority, r.Title, r.Status,
			formatTime(&created, "2006-01-02"), formatTime(r.ResolvedAt, "2006-01-02"),
		})
	}
	return t
}
