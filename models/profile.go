package models

import "time"

// Profile is a people-directory entry, keyed by slug like articles.
type Profile struct {
	Slug            string    `json:"slug" bson:"slug" binding:"required"`
	FirstName       string    `json:"first_name" bson:"first_name" binding:"required"`
	LastName        string    `json:"last_name" bson:"last_name" binding:"required"`
	JobTitle        string    `json:"job_title" bson:"job_title" binding:"required"`
	DescriptionHTML string    `json:"description_html" bson:"description_html" binding:"required"`
	Clients         []string  `json:"clients" bson:"clients"`
	PhotoURL        string    `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	Email           string    `json:"email" bson:"email" binding:"required"`
	Status          string    `json:"status" bson:"status"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// FullName is the display name used for titles and citations.
func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// URL returns the public page path for citations.
func (p *Profile) URL() string {
	return "/people/" + p.Slug
}
