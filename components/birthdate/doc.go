// Package birthdate derives the day, month and year option lists used by the
// date-of-birth selects, plus a small net/http handler that returns them as
// JSON options for form inputs.
//
// Lists are computed from the supplied clock on every call: days run 1..31,
// months 1..12 and years descend from the current year to MinYear. Nothing is
// cached, so a list is deterministic for a given calendar day.
package birthdate
