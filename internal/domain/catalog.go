package domain

import "time"

type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	Price       int64     `json:"price"`
	Level       string    `json:"level"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type Testimonial struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Achievement string    `json:"achievement"`
	Description string    `json:"description"`
	Course      string    `json:"course"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type Curriculum struct {
	ID         string    `json:"id"`
	Heading    string    `json:"heading"`
	SubHeading string    `json:"sub_heading"`
	KeyPoints  []string  `json:"key_points"`
	CreatedAt  time.Time `json:"created_at"`
}

type Blog struct {
	ID          string    `json:"id"`
	Heading     string    `json:"heading"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type Banner struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	LinkURL   string    `json:"link_url"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}
