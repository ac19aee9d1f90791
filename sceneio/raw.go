package sceneio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// ReadRawTriangles consumes a whitespace-separated list of vertex
// coordinates, nine floats per triangle, and returns the flat coordinate
// slice (ready for cd's raw-triangle loader).
func ReadRawTriangles(r io.Reader) ([]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var coords []float64
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrSyntax, sc.Text())
		}
		coords = append(coords, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(coords)%9 != 0 {
		return nil, fmt.Errorf("%w: got %d floats", ErrTriangleCount, len(coords))
	}

	return coords, nil
}

// WriteRawTriangles writes the flat coordinate slice one triangle per line.
func WriteRawTriangles(w io.Writer, coords []float64) error {
	if len(coords)%9 != 0 {
		return fmt.Errorf("%w: got %d floats", ErrTriangleCount, len(coords))
	}

	bw := bufio.NewWriter(w)
	for t := 0; t < len(coords); t += 9 {
		for i := 0; i < 9; i++ {
			if i > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(formatFloat(coords[t+i])); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// formatFloat renders a float in the canonical form shared by both file
// formats: shortest representation that round-trips exactly.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
