package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/gotraj/PS1D"
)

// ControlParameters declares one control variable of a phase. Order is
// only meaningful for polynomial controls, where it is the degree of the
// single phase-spanning polynomial; segment-local controls take their
// node layout from the grid.
type ControlParameters struct {
	Shape      int    `yaml:"Shape"`
	Units      string `yaml:"Units"`
	Polynomial bool   `yaml:"Polynomial"`
	Order      int    `yaml:"Order"`
}

// Parameters obtained from the YAML input file describing one phase.
type PhaseParameters struct {
	Title           string                       `yaml:"Title"`
	Transcription   string                       `yaml:"Transcription"` // gauss-lobatto or radau-ps
	NumSegments     int                          `yaml:"NumSegments"`
	Order           []int                        `yaml:"Order"` // single entry broadcasts to all segments
	Compressed      bool                         `yaml:"Compressed"`
	InitialTime     float64                      `yaml:"InitialTime"`
	FinalTime       float64                      `yaml:"FinalTime"`
	StepsPerSegment int                          `yaml:"StepsPerSegment"`
	Controls        map[string]ControlParameters `yaml:"Controls"`
}

func (pp *PhaseParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, pp); err != nil {
		return err
	}
	return pp.Validate()
}

// Validate rejects malformed phase parameters before any grid is built.
func (pp *PhaseParameters) Validate() (err error) {
	if _, err = PS1D.ParseFamily(pp.Transcription); err != nil {
		return
	}
	if pp.NumSegments < 1 {
		return fmt.Errorf("%w: NumSegments = %d", PS1D.ErrInvalidConfiguration, pp.NumSegments)
	}
	if len(pp.Order) != 1 && len(pp.Order) != pp.NumSegments {
		return fmt.Errorf("%w: %d orders for %d segments", PS1D.ErrInvalidConfiguration, len(pp.Order), pp.NumSegments)
	}
	if pp.FinalTime <= pp.InitialTime {
		return fmt.Errorf("%w: FinalTime = %v must exceed InitialTime = %v", PS1D.ErrInvalidConfiguration, pp.FinalTime, pp.InitialTime)
	}
	if pp.StepsPerSegment == 0 {
		pp.StepsPerSegment = 10
	}
	for name, cp := range pp.Controls {
		if cp.Shape < 1 {
			return fmt.Errorf("%w: control %s has shape %d", PS1D.ErrInvalidConfiguration, name, cp.Shape)
		}
		if cp.Polynomial && cp.Order < 1 {
			return fmt.Errorf("%w: polynomial control %s has order %d", PS1D.ErrInvalidConfiguration, name, cp.Order)
		}
	}
	return
}

// Grid constructs the GridSpec described by the parameters.
func (pp *PhaseParameters) Grid() (gs *PS1D.GridSpec, err error) {
	family, err := PS1D.ParseFamily(pp.Transcription)
	if err != nil {
		return
	}
	return PS1D.NewGridSpec(family, pp.NumSegments, pp.Compressed, pp.Order...)
}

func (pp *PhaseParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", pp.Title)
	fmt.Printf("[%s]\t\t= Transcription\n", pp.Transcription)
	fmt.Printf("[%d]\t\t\t= NumSegments\n", pp.NumSegments)
	fmt.Printf("%v\t\t\t= Order\n", pp.Order)
	fmt.Printf("[%v]\t\t\t= Compressed\n", pp.Compressed)
	fmt.Printf("%8.5f\t\t= InitialTime\n", pp.InitialTime)
	fmt.Printf("%8.5f\t\t= FinalTime\n", pp.FinalTime)
	keys := make([]string, 0, len(pp.Controls))
	for k := range pp.Controls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("Controls[%s] = %+v\n", key, pp.Controls[key])
	}
}
