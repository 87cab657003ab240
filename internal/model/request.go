package model

import (
	"time"
)

// RequestType 异步任务类型。
type RequestType string

const (
	RequestCreateProject   RequestType = "create_project"
	RequestUpdateProject   RequestType = "update_project"
	RequestIndexDocument   RequestType = "index_document"
	RequestGenerateAnswers RequestType = "generate_answers"
)

// Valid reports whether the type is a member of the closed enumeration.
func (t RequestType) Valid() bool {
	switch t {
	case RequestCreateProject, RequestUpdateProject, RequestIndexDocument, RequestGenerateAnswers:
		return true
	}
	return false
}

// RequestStatus 异步任务状态机的封闭枚举。
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestRunning   RequestStatus = "RUNNING"
	RequestCompleted RequestStatus = "COMPLETED"
	RequestFailed    RequestStatus = "FAILED"
)

// requestTransitions 单向状态机: PENDING → RUNNING → {COMPLETED, FAILED}。
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending: {RequestRunning},
	RequestRunning: {RequestCompleted, RequestFailed},
}

// CanTransitionTo reports whether moving to the target status is legal.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	for _, t := range requestTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
// A COMPLETED or FAILED request is immutable.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestCompleted || s == RequestFailed
}

// Request is a durable record of one asynchronous operation.
type Request struct {
	ID           string        `json:"id" gorm:"primaryKey;type:varchar(26)"`
	Type         RequestType   `json:"type" gorm:"type:varchar(32);not null"`
	Status       RequestStatus `json:"status" gorm:"type:varchar(32);default:'PENDING';index"`
	EntityID     string        `json:"entity_id,omitempty" gorm:"type:varchar(64)"`
	Result       string        `json:"result,omitempty" gorm:"type:longtext"` // JSON payload
	ErrorMessage string        `json:"error_message,omitempty" gorm:"type:text"`
	CreatedAt    time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Request.
func (Request) TableName() string {
	return "qa_requests"
}
