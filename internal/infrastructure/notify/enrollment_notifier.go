package notify

import (
	"context"
	"errors"

	"github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/pkg/mailer"
	mailtpl "github.com/oksasatya/course-marketplace/pkg/mailer/templates"
)

// Publisher puts a JSON message on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EnrollmentNotifier queues a receipt for the student and a sale notice for
// the course author. The email worker renders and sends them.
type EnrollmentNotifier struct {
	pub     Publisher
	appName string
}

func NewEnrollmentNotifier(pub Publisher, appName string) *EnrollmentNotifier {
	return &EnrollmentNotifier{pub: pub, appName: appName}
}

func (n *EnrollmentNotifier) EnrollmentCompleted(ctx context.Context, student, teacher *entity.User, course *entity.Course, tx *entity.Transaction) error {
	jobs := []mailer.EmailJob{{
		To:       student.Email,
		Template: mailtpl.EnrollmentReceipt,
		Data: mailtpl.NewEnrollmentReceiptData(n.appName, student.Name, student.Email,
			mailtpl.WithCourse(course.ID, course.Title),
			mailtpl.WithParties(student.Name, teacher.Name),
			mailtpl.WithPayment(tx.ID, tx.Amount, student.TokenBalance),
			mailtpl.WithTime(tx.CreatedAt),
		),
	}}
	if teacher.ID != student.ID {
		jobs = append(jobs, mailer.EmailJob{
			To:       teacher.Email,
			Template: mailtpl.CourseSale,
			Data: mailtpl.NewCourseSaleData(n.appName, teacher.Name, teacher.Email,
				mailtpl.WithCourse(course.ID, course.Title),
				mailtpl.WithParties(student.Name, teacher.Name),
				mailtpl.WithPayment(tx.ID, tx.Amount, teacher.TokenBalance),
				mailtpl.WithTime(tx.CreatedAt),
			),
		})
	}

	var errs []error
	for _, job := range jobs {
		if err := n.pub.PublishJSON(ctx, job); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ application.EnrollmentNotifier = (*EnrollmentNotifier)(nil)
