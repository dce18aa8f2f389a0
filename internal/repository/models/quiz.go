package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a string array as a JSON column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// Entities stores the categorized entity lists as a JSON column.
type Entities struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// Value implements the driver.Valuer interface
func (e Entities) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (e *Entities) Scan(value interface{}) error {
	if value == nil {
		*e = Entities{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("Entities Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*e = Entities{}
		return nil
	}
	return json.Unmarshal(bytesToParse, e)
}

// Quiz is the quizzes table row.
type Quiz struct {
	ID            string         `db:"id"`
	URL           string         `db:"url"`
	Title         string         `db:"title"`
	Summary       string         `db:"summary"`
	KeyEntities   Entities       `db:"key_entities"`
	Sections      StringSlice    `db:"sections"`
	RelatedTopics StringSlice    `db:"related_topics"`
	RawHTML       sql.NullString `db:"raw_html"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Question is the questions table row. Position preserves the order the
// questions came back from the model.
type Question struct {
	ID          string      `db:"id"`
	QuizID      string      `db:"quiz_id"`
	Position    int         `db:"position"`
	Question    string      `db:"question"`
	Options     StringSlice `db:"options"`
	Answer      string      `db:"answer"`
	Difficulty  string      `db:"difficulty"`
	Explanation string      `db:"explanation"`
	CreatedAt   time.Time   `db:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

// QuizSummary is the history projection with an aggregated question count.
type QuizSummary struct {
	ID            string    `db:"id"`
	URL           string    `db:"url"`
	Title         string    `db:"title"`
	Summary       string    `db:"summary"`
	QuestionCount int       `db:"question_count"`
	CreatedAt     time.Time `db:"created_at"`
}
