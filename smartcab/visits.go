package smartcab

import (
	"path"
	"strconv"

	"github.com/pkg/errors"
	"github.com/zeu5/smartcab-rl/types"
	"github.com/zeu5/smartcab-rl/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// VisitDataSet counts the steps taken at every intersection
type VisitDataSet struct {
	Visits map[int]map[int]int `json:"visits"`
	Cols   int                 `json:"cols"`
	Rows   int                 `json:"rows"`
}

var _ plotter.GridXYZ = &VisitDataSet{}

func NewVisitDataSet(cols, rows int) *VisitDataSet {
	return &VisitDataSet{
		Visits: make(map[int]map[int]int),
		Cols:   cols,
		Rows:   rows,
	}
}

func (v *VisitDataSet) Add(l types.Location) {
	if _, ok := v.Visits[l.X]; !ok {
		v.Visits[l.X] = make(map[int]int)
	}
	v.Visits[l.X][l.Y] += 1
}

func (v *VisitDataSet) Count(l types.Location) int {
	return v.Visits[l.X][l.Y]
}

func (v *VisitDataSet) Dims() (int, int) {
	return v.Cols, v.Rows
}

// Z at column c and row r, rows counted from the top of the grid
func (v *VisitDataSet) Z(c, r int) float64 {
	return float64(v.Visits[c+1][v.Rows-r])
}

func (v *VisitDataSet) X(c int) float64 {
	return float64(c + 1)
}

func (v *VisitDataSet) Y(r int) float64 {
	return float64(r + 1)
}

func (v *VisitDataSet) Max() float64 {
	max := 0
	for _, vals := range v.Visits {
		for _, count := range vals {
			if count > max {
				max = count
			}
		}
	}
	return float64(max)
}

// MergeVisitDataSets sums the visits of all datasets
func MergeVisitDataSets(dataSets []types.DataSet) *VisitDataSet {
	merged := NewVisitDataSet(0, 0)
	for _, d := range dataSets {
		v, ok := d.(*VisitDataSet)
		if !ok {
			continue
		}
		if v.Cols > merged.Cols {
			merged.Cols = v.Cols
		}
		if v.Rows > merged.Rows {
			merged.Rows = v.Rows
		}
		for x, vals := range v.Visits {
			for y, count := range vals {
				if _, ok := merged.Visits[x]; !ok {
					merged.Visits[x] = make(map[int]int)
				}
				merged.Visits[x][y] += count
			}
		}
	}
	return merged
}

type visitAnalyzer struct {
	cols    int
	rows    int
	dataSet *VisitDataSet
}

// VisitAnalyzer counts the intersections the vehicle acted at over all trials
func VisitAnalyzer(cols, rows int) types.Analyzer {
	return &visitAnalyzer{
		cols:    cols,
		rows:    rows,
		dataSet: NewVisitDataSet(cols, rows),
	}
}

func (a *visitAnalyzer) Analyze(_ int, _ string, _ *types.TrialRecord, trace *types.Trace) {
	for i := 0; i < trace.Len(); i++ {
		step, _ := trace.Get(i)
		a.dataSet.Add(step.Location)
	}
}

func (a *visitAnalyzer) DataSet() types.DataSet {
	return a.dataSet
}

func (a *visitAnalyzer) Reset() {
	a.dataSet = NewVisitDataSet(a.cols, a.rows)
}

// VisitPlotter draws a heat map of the visits of every experiment
func VisitPlotter(plotPath string) types.Comparator {
	return func(run int, names []string, ds []types.DataSet) error {
		if err := util.EnsureDir(plotPath); err != nil {
			return err
		}
		for i := 0; i < len(names); i++ {
			dataSet, ok := ds[i].(*VisitDataSet)
			if !ok {
				return errors.Errorf("dataset of %s is not a visit dataset", names[i])
			}
			p := plot.New()
			p.Title.Text = names[i]
			p.X.Label.Text = "Column"
			p.Y.Label.Text = "Row (from the bottom)"
			p.Add(plotter.NewHeatMap(dataSet, palette.Heat(20, 1)))
			file := path.Join(plotPath, strconv.Itoa(run)+"_"+names[i]+"_visits.png")
			if err := p.Save(6*vg.Inch, 5*vg.Inch, file); err != nil {
				return errors.Wrapf(err, "saving %s", file)
			}
		}
		return nil
	}
}
