package reorder

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern maps a lowercase substring of a technical error to a message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is matched in order; the first hit wins, so more specific
// patterns come first.
var errorPatterns = []errorPattern{
	// Column resolution (COL001-COL099)
	{
		pattern: "unresolved input column",
		msg: UserMessage{
			Message: "A sort-key column was not found in the input header",
			Action:  "Check the input order names against the first line of the input file",
			Code:    "COL001",
		},
	},
	{
		pattern: "unresolved output column",
		msg: UserMessage{
			Message: "An output column was not found in the input header",
			Action:  "Check the output order names against the first line of the input file",
			Code:    "COL002",
		},
	},

	// Row shape (ROW001-ROW099)
	{
		pattern: "out of range",
		msg: UserMessage{
			Message: "A row has fewer cells than the header",
			Action:  "Fix the reported line so every row has a value for each referenced column",
			Code:    "ROW001",
		},
	},

	// Files (FILE001-FILE099)
	{
		pattern: "open input",
		msg: UserMessage{
			Message: "The input file could not be opened",
			Action:  "Verify the input path exists and is readable",
			Code:    "FILE001",
		},
	},
	{
		pattern: "write output",
		msg: UserMessage{
			Message: "The output file could not be written",
			Action:  "Verify the output directory exists and is writable",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid tsv",
		msg: UserMessage{
			Message: "The input is not a valid tab-separated table",
			Action:  "Save the file as tab-separated text with a header line",
			Code:    "FILE003",
		},
	},
	{
		pattern: "empty table",
		msg: UserMessage{
			Message: "The input has no header line",
			Action:  "Provide a file whose first line names the columns",
			Code:    "FILE004",
		},
	},

	// Run lifecycle (RUN001-RUN099)
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The run was cancelled",
			Action:  "Start the run again",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The run timed out",
			Action:  "Try a smaller table or raise REORDER_TIMEOUT",
			Code:    "RUN002",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for the technical error",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Patterns match case-insensitively; ERR000 is returned when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
