package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// lowTarget is the threshold for Low: dice showing at most this value count.
	lowTarget = 3
	// minTarget and maxTarget bound the numeric categories.
	minTarget = 4
	maxTarget = 12
)

// Category is one of the ten scoring targets: Low or an integer 4-12.
//
// The zero Category is invalid; values are obtained from Low, Numeric,
// ParseCategory or AllCategories.
type Category struct {
	target int
}

// Low scores the sum of all dice showing three or less.
var Low = Category{target: lowTarget}

// Numeric returns the exact-sum category for target.
//
// Precondition: 4 <= target <= 12.
// Postcondition: Returns the Category or an error wrapping ErrInvalidCategory.
func Numeric(target int) (Category, error) {
	if target < minTarget || target > maxTarget {
		return Category{}, fmt.Errorf("%w: %d", ErrInvalidCategory, target)
	}
	return Category{target: target}, nil
}

// ParseCategory accepts "low" (any case) or an integer 4-12.
//
// Postcondition: Returns the Category or an error wrapping ErrInvalidCategory.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "low") {
		return Low, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Category{}, fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return Numeric(n)
}

// AllCategories returns the ten categories, Low first then ascending.
func AllCategories() []Category {
	all := make([]Category, 0, maxTarget-lowTarget+1)
	for t := lowTarget; t <= maxTarget; t++ {
		all = append(all, Category{target: t})
	}
	return all
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	return c.target >= lowTarget && c.target <= maxTarget
}

// IsLow reports whether c is the Low category.
func (c Category) IsLow() bool { return c.target == lowTarget }

// Target returns the exact sum a numeric category requires. For Low it
// returns the inclusive face threshold.
func (c Category) Target() int { return c.target }

// Less orders categories Low first, then ascending.
func (c Category) Less(o Category) bool { return c.target < o.target }

// String renders "Low" or the target number.
func (c Category) String() string {
	switch {
	case !c.Valid():
		return "invalid"
	case c.IsLow():
		return "Low"
	default:
		return strconv.Itoa(c.target)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: zero category", ErrInvalidCategory)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FromTarget is the inverse of Target, used when categories are stored as
// integers.
//
// Postcondition: Returns the Category or an error wrapping ErrInvalidCategory.
func FromTarget(target int) (Category, error) {
	if target == lowTarget {
		return Low, nil
	}
	return Numeric(target)
}
