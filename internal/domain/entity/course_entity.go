package entity

import "time"

// Course is owned by its author. Sections and Comments are sub-documents
// without a lifecycle of their own.
type Course struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Author     string    `json:"author"`
	AuthorID   string    `json:"authorId"`
	Price      int64     `json:"price"`
	Image      string    `json:"image"`
	Sections   []Section `json:"sections"`
	Comments   []Comment `json:"comments"`
	IsFeatured bool      `json:"isFeatured"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Section ids are referenced by Enrollment.CompletedSections and must not change.
type Section struct {
	SectionID   string `json:"sectionId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
}

// Comment keeps a copy of the author's name taken when it was written.
type Comment struct {
	ID       string    `json:"_id"`
	UserID   string    `json:"user"`
	UserName string    `json:"userName"`
	Text     string    `json:"text"`
	Date     time.Time `json:"date"`
}
