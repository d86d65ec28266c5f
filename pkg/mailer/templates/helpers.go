package templates

import "time"

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithCourse(id, title string) Option {
	return func(d *EmailData) {
		d.CourseID = id
		d.CourseTitle = title
	}
}

func WithPayment(txID string, amount, balance int64) Option {
	return func(d *EmailData) {
		d.TransactionID = txID
		d.Amount = amount
		d.Balance = balance
	}
}

func WithParties(student, teacher string) Option {
	return func(d *EmailData) {
		d.StudentName = student
		d.TeacherName = teacher
	}
}

// NewBaseEmailData fills the common fields, then applies opts.
func NewBaseEmailData(appName, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
		AppName:        appName,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewEnrollmentReceiptData(appName, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(appName, EnrollmentReceipt, name, email, opts...))
}

func NewCourseSaleData(appName, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(appName, CourseSale, name, email, opts...))
}
