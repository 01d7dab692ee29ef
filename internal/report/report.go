// Package report writes partition tables and operation outcomes as plain
// text or JSON.
package report

import (
	"encoding/json"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/partkit/internal/script"
	"github.com/joshuapare/partkit/partition"
)

// Format specifies the output format.
type Format string

const (
	// FormatText outputs one human-readable line per item.
	FormatText Format = "text"

	// FormatJSON outputs indented JSON documents.
	FormatJSON Format = "json"
)

// Writer renders reports to an io.Writer.
type Writer struct {
	w      io.Writer
	format Format
	p      *message.Printer
}

// New creates a Writer. Numbers in text output are grouped for lang
// (e.g. 1,000 for English); an undetermined tag falls back to English.
func New(w io.Writer, format Format, lang language.Tag) *Writer {
	if lang == language.Und {
		lang = language.English
	}
	if format == "" {
		format = FormatText
	}
	return &Writer{w: w, format: format, p: message.NewPrinter(lang)}
}

// Snapshot writes every partition in table order.
func (r *Writer) Snapshot(views []partition.View) error {
	if r.format == FormatJSON {
		return r.json(views)
	}
	for _, v := range views {
		if err := r.view(v); err != nil {
			return err
		}
	}
	return nil
}

// Total writes the total internal fragmentation.
func (r *Writer) Total(total int) error {
	if r.format == FormatJSON {
		return r.json(struct {
			Total int `json:"total_internal_fragmentation"`
		}{total})
	}
	_, err := r.p.Fprintf(r.w, "Total internal fragmentation: %d units\n", total)
	return err
}

// Stats writes occupancy totals.
func (r *Writer) Stats(s partition.Stats) error {
	if r.format == FormatJSON {
		return r.json(s)
	}
	_, err := r.p.Fprintf(r.w,
		"Partitions: %d (%d occupied, %d free)\n"+
			"Capacity: %d total, %d used, %d free\n"+
			"Internal fragmentation: %d\n"+
			"Largest free partition: %d\n",
		s.Partitions, s.Occupied, s.Free,
		s.TotalCapacity, s.UsedCapacity, s.FreeCapacity,
		s.InternalFragmentation,
		s.LargestFree,
	)
	return err
}

// Allocation writes the outcome of one allocate call. err is nil on success.
func (r *Writer) Allocation(name string, size int, a partition.Allocation, err error) error {
	return r.Results([]script.Result{{
		Op:         script.Op{Kind: script.KindAlloc, Name: name, Size: size},
		Allocation: &a,
		Err:        err,
	}})
}

// Release writes the outcome of one free call. err is nil on success.
func (r *Writer) Release(name string, rel partition.Release, err error) error {
	return r.Results([]script.Result{{
		Op:      script.Op{Kind: script.KindFree, Name: name},
		Release: &rel,
		Err:     err,
	}})
}

// Results writes script outcomes in order.
func (r *Writer) Results(results []script.Result) error {
	if r.format == FormatJSON {
		out := make([]jsonResult, len(results))
		for i, res := range results {
			out[i] = toJSON(res)
		}
		return r.json(out)
	}
	for _, res := range results {
		if err := r.result(res); err != nil {
			return err
		}
	}
	return nil
}

func (r *Writer) view(v partition.View) error {
	if v.Occupant == nil {
		_, err := r.p.Fprintf(r.w, "Partition %d (%d): free\n", v.ID, v.Capacity)
		return err
	}
	_, err := r.p.Fprintf(r.w, "Partition %d (%d): %s (%d units, fragmentation %d)\n",
		v.ID, v.Capacity, v.Occupant.Name, v.Occupant.Size, v.Occupant.Fragmentation)
	return err
}

func (r *Writer) result(res script.Result) error {
	op := res.Op
	if res.Err != nil {
		switch op.Kind {
		case script.KindAlloc:
			_, err := r.p.Fprintf(r.w, "Could not allocate %s (%d units)\n", op.Name, op.Size)
			return err
		case script.KindFree:
			_, err := r.p.Fprintf(r.w, "Process %s not found\n", op.Name)
			return err
		}
		_, err := r.p.Fprintf(r.w, "%s: %v\n", op, res.Err)
		return err
	}

	switch op.Kind {
	case script.KindAlloc:
		_, err := r.p.Fprintf(r.w, "Allocated %s in partition %d (internal fragmentation %d units)\n",
			op.Name, res.Allocation.PartitionID, res.Allocation.Fragmentation)
		return err
	case script.KindFree:
		_, err := r.p.Fprintf(r.w, "Released %s from partition %d\n", op.Name, res.Release.PartitionID)
		return err
	case script.KindShow:
		return r.Snapshot(res.Snapshot)
	case script.KindFrag:
		return r.Total(*res.Total)
	}
	return nil
}

type jsonResult struct {
	Op            string           `json:"op"`
	Line          int              `json:"line,omitempty"`
	Name          string           `json:"name,omitempty"`
	Size          int              `json:"size,omitempty"`
	OK            bool             `json:"ok"`
	PartitionID   int              `json:"partition_id,omitempty"`
	Fragmentation *int             `json:"fragmentation,omitempty"`
	Error         string           `json:"error,omitempty"`
	Snapshot      []partition.View `json:"snapshot,omitempty"`
	Total         *int             `json:"total,omitempty"`
}

func toJSON(res script.Result) jsonResult {
	out := jsonResult{
		Op:       res.Op.Kind.String(),
		Line:     res.Op.Line,
		Name:     res.Op.Name,
		Size:     res.Op.Size,
		OK:       res.OK(),
		Snapshot: res.Snapshot,
		Total:    res.Total,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
		return out
	}
	if a := res.Allocation; a != nil {
		out.PartitionID = a.PartitionID
		frag := a.Fragmentation
		out.Fragmentation = &frag
	}
	if rel := res.Release; rel != nil {
		out.PartitionID = rel.PartitionID
	}
	return out
}

func (r *Writer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
