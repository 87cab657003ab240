// Package errors provides the structured error code system used across the
// due-diligence service.
//
// Error Code Format: AABBCCC (7 digits)
//
//   - AA:  Service/Module code (00-99)
//   - BB:  Category code (00-99)
//   - CCC: Sequence number (000-999)
//
// Service Codes (AA):
//
//   - 00: Common/Base errors (all modules)
//   - 20: QA service (projects, questionnaires, answers, evaluation)
//
// Category Codes (BB):
//
//   - 00: Success
//   - 01: Request/Validation errors (400)
//   - 04: Resource errors (404)
//   - 05: Conflict errors (409)
//   - 07: Internal errors (500)
//   - 08: Database errors (500)
//   - 09: Cache errors (500)
//   - 10: Network errors (502/503)
//   - 11: Timeout errors (504)
//   - 12: Configuration errors (500)
package errors

// Service codes (AA)
const (
	// ServiceCommon is for common/base errors shared by all modules.
	ServiceCommon = 0

	// ServiceQA is for the question-answering service.
	ServiceQA = 20
)

// Category codes (BB)
const (
	// CategorySuccess indicates successful operation.
	CategorySuccess = 0

	// CategoryRequest indicates request/validation errors.
	CategoryRequest = 1

	// CategoryResource indicates resource not found errors.
	CategoryResource = 4

	// CategoryConflict indicates resource conflict errors.
	CategoryConflict = 5

	// CategoryInternal indicates internal server errors.
	CategoryInternal = 7

	// CategoryDatabase indicates database errors.
	CategoryDatabase = 8

	// CategoryCache indicates cache errors.
	CategoryCache = 9

	// CategoryNetwork indicates network errors.
	CategoryNetwork = 10

	// CategoryTimeout indicates timeout errors.
	CategoryTimeout = 11

	// CategoryConfig indicates configuration errors.
	CategoryConfig = 12
)

// MakeCode creates an error code from service, category, and sequence.
// Format: AABBCCC where AA=service, BB=category, CCC=sequence
func MakeCode(service, category, sequence int) int {
	return service*100000 + category*1000 + sequence
}

// ParseCode parses an error code into service, category, and sequence.
func ParseCode(code int) (service, category, sequence int) {
	service = code / 100000
	category = (code % 100000) / 1000
	sequence = code % 1000
	return
}

// GetService returns the service code from an error code.
func GetService(code int) int {
	return code / 100000
}

// GetCategory returns the category code from an error code.
func GetCategory(code int) int {
	return (code % 100000) / 1000
}

// IsSuccess checks if the error code indicates success.
func IsSuccess(code int) bool {
	return code == 0
}

// IsClientError checks if the error code indicates a client error (4xx).
func IsClientError(code int) bool {
	category := GetCategory(code)
	return category >= CategoryRequest && category <= CategoryConflict
}

// IsServerError checks if the error code indicates a server error (5xx).
func IsServerError(code int) bool {
	category := GetCategory(code)
	return category >= CategoryInternal && category <= CategoryConfig
}
