package model

import "time"

// Post is a forum post. Posts carry no author and are only ever mutated by upvotes.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:100;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Tags      string    `json:"tags" gorm:"size:100"`
	Upvotes   int       `json:"upvotes" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
