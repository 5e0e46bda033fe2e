package sinks

import (
	"encoding/csv"
	"os"
	"path"
	"strconv"

	"github.com/pkg/errors"
	"github.com/zeu5/smartcab-rl/types"
	"github.com/zeu5/smartcab-rl/util"
)

// CSVHeader of the trial log
var CSVHeader = []string{
	"trial", "testing", "epsilon", "alpha",
	"initial_deadline", "final_deadline", "net_reward",
	"actions_good", "actions_minor_violation", "actions_major_violation",
	"actions_minor_accident", "actions_major_accident",
	"success", "steps",
}

// CSVSink appends one row per trial to a csv file
type CSVSink struct {
	file   *os.File
	writer *csv.Writer
}

var _ types.Sink = &CSVSink{}

// NewCSVSink opens (or creates) the file and writes the header if the file is empty
func NewCSVSink(filePath string) (*CSVSink, error) {
	if err := util.EnsureDir(path.Dir(filePath)); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", filePath)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "reading %s", filePath)
	}
	s := &CSVSink{file: f, writer: csv.NewWriter(f)}
	if info.Size() == 0 {
		if err := s.write(CSVHeader); err != nil {
			f.Close()
			return nil, err
		}
	}
	return s, nil
}

// CSVRow formats the record in the order of CSVHeader
func CSVRow(r *types.TrialRecord) []string {
	row := []string{
		strconv.Itoa(r.Trial),
		strconv.FormatBool(r.Testing),
		strconv.FormatFloat(r.Epsilon, 'g', -1, 64),
		strconv.FormatFloat(r.Alpha, 'g', -1, 64),
		strconv.Itoa(r.InitialDeadline),
		strconv.Itoa(r.FinalDeadline),
		strconv.FormatFloat(r.NetReward, 'f', 4, 64),
	}
	for _, c := range r.Actions {
		row = append(row, strconv.Itoa(c))
	}
	return append(row, strconv.FormatBool(r.Success), strconv.Itoa(r.Steps))
}

func (s *CSVSink) write(row []string) error {
	if err := s.writer.Write(row); err != nil {
		return errors.Wrap(err, "writing csv row")
	}
	s.writer.Flush()
	return s.writer.Error()
}

func (s *CSVSink) Record(r *types.TrialRecord) error {
	return s.write(CSVRow(r))
}

func (s *CSVSink) Close() error {
	s.writer.Flush()
	return s.file.Close()
}
