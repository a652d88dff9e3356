// Package clock cung cấp đồng hồ nghiệp vụ: múi giờ cố định (mặc định UTC+7)
// và giờ chốt nhận đơn buổi sáng (mặc định 08:30).
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// DateKey là ngày nghiệp vụ dạng YYYY-MM-DD
type DateKey string

// MonthKey là tháng dạng YYYY-MM
type MonthKey string

// Cutoff là giờ:phút chốt trong ngày nghiệp vụ
type Cutoff struct {
	Hour   int
	Minute int
}

// String trả về dạng HH:MM
func (c Cutoff) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseCutoff đọc chuỗi "HH:MM"
func ParseCutoff(s string) (Cutoff, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Cutoff{}, fmt.Errorf("giờ chốt không hợp lệ: %q", s)
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return Cutoff{}, fmt.Errorf("giờ chốt không hợp lệ: %q", s)
	}
	return Cutoff{Hour: h, Minute: m}, nil
}

// Clock là nguồn thời gian nghiệp vụ
type Clock interface {
	Now() time.Time
	Today() DateKey
	DateOf(t time.Time) DateKey
	IsBeforeCutoff(t time.Time) bool
	DayWindow(day DateKey) (start, end time.Time, err error)
	CutoffOf(day DateKey) (time.Time, error)
	MonthKey(t time.Time) MonthKey
	PreviousMonthKey(t time.Time) MonthKey
}

// BusinessClock tính ngày, giờ chốt và tháng theo múi giờ cố định
type BusinessClock struct {
	loc    *time.Location
	cutoff Cutoff
	now    func() time.Time
}

// Option tùy chỉnh BusinessClock
type Option func(*BusinessClock)

// WithNow thay nguồn thời gian (dùng trong test hoặc replay)
func WithNow(now func() time.Time) Option {
	return func(c *BusinessClock) { c.now = now }
}

// NewBusinessClock tạo đồng hồ với offset giờ so với UTC và giờ chốt
func NewBusinessClock(utcOffsetHours int, cutoff Cutoff, opts ...Option) *BusinessClock {
	name := fmt.Sprintf("UTC%+d", utcOffsetHours)
	c := &BusinessClock{
		loc:    time.FixedZone(name, utcOffsetHours*3600),
		cutoff: cutoff,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location trả về múi giờ nghiệp vụ
func (c *BusinessClock) Location() *time.Location {
	return c.loc
}

// Cutoff trả về giờ chốt đã cấu hình
func (c *BusinessClock) Cutoff() Cutoff {
	return c.cutoff
}

// Now trả về thời điểm hiện tại theo múi giờ nghiệp vụ
func (c *BusinessClock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today trả về ngày nghiệp vụ hiện tại
func (c *BusinessClock) Today() DateKey {
	return c.DateOf(c.now())
}

// DateOf trả về ngày nghiệp vụ chứa thời điểm t
func (c *BusinessClock) DateOf(t time.Time) DateKey {
	return DateKey(t.In(c.loc).Format(dateLayout))
}

// IsBeforeCutoff true khi t nằm trước giờ chốt của chính ngày nghiệp vụ chứa t
func (c *BusinessClock) IsBeforeCutoff(t time.Time) bool {
	local := t.In(c.loc)
	cutoff := time.Date(local.Year(), local.Month(), local.Day(), c.cutoff.Hour, c.cutoff.Minute, 0, 0, c.loc)
	return local.Before(cutoff)
}

// DayWindow trả về [đầu ngày, cuối ngày] (cuối ngày là 23:59:59.999) của ngày nghiệp vụ
func (c *BusinessClock) DayWindow(day DateKey) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, string(day), c.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("ngày không hợp lệ %q: %w", day, err)
	}
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end, nil
}

// CutoffOf trả về thời điểm giờ chốt của ngày nghiệp vụ
func (c *BusinessClock) CutoffOf(day DateKey) (time.Time, error) {
	start, _, err := c.DayWindow(day)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(c.cutoff.Hour)*time.Hour + time.Duration(c.cutoff.Minute)*time.Minute), nil
}

// MonthKey trả về tháng nghiệp vụ chứa t
func (c *BusinessClock) MonthKey(t time.Time) MonthKey {
	return MonthKey(t.In(c.loc).Format(monthLayout))
}

// PreviousMonthKey trả về tháng liền trước tháng nghiệp vụ chứa t
func (c *BusinessClock) PreviousMonthKey(t time.Time) MonthKey {
	local := t.In(c.loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, c.loc)
	return MonthKey(first.AddDate(0, -1, 0).Format(monthLayout))
}

// PreviousMonth trả về tháng liền trước của một MonthKey
func PreviousMonth(m MonthKey) (MonthKey, error) {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return "", fmt.Errorf("tháng không hợp lệ %q: %w", m, err)
	}
	return MonthKey(t.AddDate(0, -1, 0).Format(monthLayout)), nil
}
