package route

// Segments splits path[1:] into runs of stops reached on the same line.
// The first stop has no line and belongs to no segment.
func Segments(path []Stop) []Segment {
	segs := []Segment{}
	if len(path) < 2 {
		return segs
	}
	for _, stop := range path[1:] {
		if stop.Line == nil {
			continue
		}
		if n := len(segs); n == 0 || segs[n-1].LineID != stop.Line.ID {
			segs = append(segs, Segment{
				LineID:    stop.Line.ID,
				LineName:  stop.Line.Name,
				LineColor: stop.Line.Color,
			})
		}
		last := &segs[len(segs)-1]
		last.Stations = append(last.Stations, stop)
	}
	return segs
}
