package models

import (
	"time"
)

type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password"`
	Photo    string `json:"photo" db:"photo"`
}

type Post struct {
	ID         int64     `json:"id" db:"id"`
	Author     int64     `json:"author" db:"author"`
	URL        string    `json:"url" db:"url"`
	Title      string    `json:"title" db:"title"`
	Info       string    `json:"info" db:"info"`
	Content    string    `json:"content" db:"content"`
	Created    time.Time `json:"created" db:"created"`
	AuthorName string    `json:"authorName" db:"author_name"`
}

type Stats struct {
	Users int `json:"users" db:"users"`
	Posts int `json:"posts" db:"posts"`
}
