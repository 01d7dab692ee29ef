package partition

import (
	"fmt"
	"strings"
)

// Policy selects which eligible partition receives an allocation.
// A partition is eligible when it is free and its capacity covers the request.
type Policy uint8

const (
	// FirstFit picks the eligible partition that comes first in table order.
	FirstFit Policy = iota

	// BestFit picks the smallest eligible partition. Ties go to table order.
	BestFit

	// WorstFit picks the largest eligible partition. Ties go to table order.
	WorstFit
)

var policyNames = [...]string{
	FirstFit: "first-fit",
	BestFit:  "best-fit",
	WorstFit: "worst-fit",
}

func (p Policy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("Policy(%d)", uint8(p))
}

// ParsePolicy accepts "first-fit", "best-fit" or "worst-fit". Case, underscores
// and a missing "-fit" suffix are tolerated; the empty string means FirstFit.
func ParsePolicy(s string) (Policy, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	switch norm {
	case "", "first", "first-fit", "firstfit":
		return FirstFit, nil
	case "best", "best-fit", "bestfit":
		return BestFit, nil
	case "worst", "worst-fit", "worstfit":
		return WorstFit, nil
	}
	return FirstFit, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if int(p) >= len(policyNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// choose returns the index of the partition that should receive size units,
// or -1 when no partition is eligible. Single pass over parts.
func (p Policy) choose(parts []Partition, size int) int {
	pick := -1
	for i := range parts {
		part := &parts[i]
		if part.Occupant != nil || part.Capacity < size {
			continue
		}
		switch p {
		case BestFit:
			if pick < 0 || part.Capacity < parts[pick].Capacity {
				pick = i
			}
		case WorstFit:
			if pick < 0 || part.Capacity > parts[pick].Capacity {
				pick = i
			}
		default:
			return i
		}
	}
	return pick
}
