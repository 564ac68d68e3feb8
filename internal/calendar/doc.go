// Package calendar is the calendar client behind the list_events and
// create_event tools.
//
// Events are listed from now onwards, expanded and ordered by start time.
// Created events always use the UTC time zone; callers pass ISO-8601 instants
// that are sent without conversion.
package calendar
