package core

// error_messages.go maps low-level errors onto user-facing messages with
// stable codes. Operators quote the code to support staff; the technical
// error stays in the server log.
//
// Code groups:
//
//	DB001 - Duplicate key        ("duplicate key")
//	DB002 - Unique constraint    ("unique constraint", "violates unique")
//	DB003 - Foreign key          ("foreign key")
//	DB004 - Connection refused   ("connection refused")
//	DB005 - Timeout              ("timeout", "deadline exceeded")
//	REQ001 - Malformed request body
//	REQ002 - Too many rows in one request
//	GEN001 - Fallback for everything else

import "strings"

// UserMessage is a user-facing error with a support code and a suggested
// next step.
type UserMessage struct {
	Code    string
	Message string
	Action  string
}

// errorPatterns maps substrings of technical errors to user messages.
// Checked in order; first match wins.
var errorPatterns = []struct {
	patterns []string
	msg      UserMessage
}{
	{
		patterns: []string{"duplicate key"},
		msg: UserMessage{
			Code:    "DB001",
			Message: "A record with this ID already exists",
			Action:  "Check whether this batch was already confirmed",
		},
	},
	{
		patterns: []string{"unique constraint", "violates unique"},
		msg: UserMessage{
			Code:    "DB002",
			Message: "This value must be unique but already exists",
			Action:  "Review the batch history for a previous confirm",
		},
	},
	{
		patterns: []string{"foreign key"},
		msg: UserMessage{
			Code:    "DB003",
			Message: "A referenced record does not exist",
			Action:  "Contact support with this code",
		},
	},
	{
		patterns: []string{"connection refused", "connection reset"},
		msg: UserMessage{
			Code:    "DB004",
			Message: "Unable to reach the database",
			Action:  "Please try again in a few moments",
		},
	},
	{
		patterns: []string{"timeout", "deadline exceeded"},
		msg: UserMessage{
			Code:    "DB005",
			Message: "The operation timed out",
			Action:  "Try a smaller batch or try again later",
		},
	},
	{
		patterns: []string{"malformed request", "invalid character", "unexpected end of json", "cannot unmarshal"},
		msg: UserMessage{
			Code:    "REQ001",
			Message: "The request body could not be parsed",
			Action:  "Check the request format and try again",
		},
	},
	{
		patterns: []string{"too many rows"},
		msg: UserMessage{
			Code:    "REQ002",
			Message: "The import exceeds the per-request row limit",
			Action:  "Split the file and import it in parts",
		},
	},
}

// MapError converts a technical error into a user-facing message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{Code: "GEN001", Message: "An unexpected error occurred"}
	}

	lower := strings.ToLower(err.Error())
	for _, entry := range errorPatterns {
		for _, p := range entry.patterns {
			if strings.Contains(lower, p) {
				return entry.msg
			}
		}
	}

	return UserMessage{
		Code:    "GEN001",
		Message: "An unexpected error occurred",
		Action:  "Please try again; contact support with this code if it persists",
	}
}
