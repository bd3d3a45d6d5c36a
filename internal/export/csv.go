// Package export writes generation results to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/kyiku/aggpack/internal/geometry"
	"github.com/kyiku/aggpack/internal/group"
	"github.com/kyiku/aggpack/internal/model"
)

var header = []string{
	"ID", "Class", "Group", "Center_X", "Center_Y", "Radius", "Area", "Kind", "Parameters", "ITZ",
}

// WriteCSV writes one row per placed shape. part may be nil, in which
// case the group column is left empty.
func WriteCSV(w io.Writer, res *model.Result, part *group.Partition) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range res.Aggregate.Shapes {
		groupID := ""
		if part != nil {
			if gid, ok := part.ByShape[s.ID]; ok {
				groupID = strconv.Itoa(gid)
			}
		}
		row := []string{
			strconv.Itoa(s.ID),
			strconv.Itoa(s.Class),
			groupID,
			fmt.Sprintf("%.4f", s.Outline.Center.X),
			fmt.Sprintf("%.4f", s.Outline.Center.Y),
			fmt.Sprintf("%.4f", s.Outline.BoundingRadius()),
			fmt.Sprintf("%.4f", s.Area),
			string(s.Outline.Kind),
			parameters(s),
			fmt.Sprintf("%.2f", s.Margin),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func parameters(s model.Shape) string {
	switch s.Outline.Kind {
	case geometry.KindCircle:
		return fmt.Sprintf("Radius=%.2f", s.Outline.Radius)
	case geometry.KindEllipse:
		return fmt.Sprintf("Major=%.2f, Minor=%.2f, Rotation=%.2f",
			s.Outline.Major, s.Outline.Minor, s.Outline.Rotation)
	default:
		return fmt.Sprintf("Sides=%d", len(s.Outline.Ring)-1)
	}
}
