/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/gotraj/InputParameters"
	"github.com/notargets/gotraj/PS1D"
	"github.com/notargets/gotraj/shooting"
	"github.com/notargets/gotraj/utils"
)

// propagateCmd represents the propagate command
var propagateCmd = &cobra.Command{
	Use:   "propagate",
	Short: "Explicit shooting propagation of the brachistochrone model problem",
	Long: `
Builds the pseudospectral grid for a phase, fills the wire angle control
with a linear profile at the grid's control nodes, and propagates the
brachistochrone ODE through it with fixed-step RK4, printing the dense
state history.

gotraj propagate -k 3 -n 5 --family gauss-lobatto`,
	Run: func(cmd *cobra.Command, args []string) {
		pp := &InputParameters.PhaseParameters{}
		if fileName, _ := cmd.Flags().GetString("input"); fileName != "" {
			data, err := os.ReadFile(fileName)
			if err != nil {
				fmt.Printf("unable to read input file: %v\n", err)
				os.Exit(1)
			}
			if err = pp.Parse(data); err != nil {
				fmt.Printf("unable to parse input file: %v\n", err)
				os.Exit(1)
			}
		} else {
			pp.Title = "Brachistochrone"
			pp.Transcription, _ = cmd.Flags().GetString("family")
			pp.NumSegments, _ = cmd.Flags().GetInt("k")
			order, _ := cmd.Flags().GetInt("n")
			pp.Order = []int{order}
			pp.Compressed, _ = cmd.Flags().GetBool("compressed")
			pp.FinalTime, _ = cmd.Flags().GetFloat64("finalTime")
			pp.StepsPerSegment, _ = cmd.Flags().GetInt("steps")
			if err := pp.Validate(); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
		if doProfile, _ := cmd.Flags().GetBool("profile"); doProfile {
			defer profile.Start().Stop()
		}
		RunPropagate(pp)
	},
}

func init() {
	rootCmd.AddCommand(propagateCmd)
	propagateCmd.Flags().StringP("input", "i", "", "YAML phase parameter file")
	propagateCmd.Flags().StringP("family", "f", "gauss-lobatto", "transcription family: gauss-lobatto or radau-ps")
	propagateCmd.Flags().IntP("k", "k", 3, "number of segments in the phase")
	propagateCmd.Flags().IntP("n", "n", 5, "transcription order per segment")
	propagateCmd.Flags().Bool("compressed", true, "share segment boundary nodes")
	propagateCmd.Flags().Float64("finalTime", 1.8016, "phase duration in seconds")
	propagateCmd.Flags().Int("steps", 20, "RK4 steps per segment")
	propagateCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
}

// RunPropagate drives the demo: linear theta guess from 5 to 100 degrees
// across the control nodes, then explicit shooting through the phase.
func RunPropagate(pp *InputParameters.PhaseParameters) {
	grid, err := pp.Grid()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	pp.Print()
	fmt.Printf("[%d]\t\t\t= Total control nodes\n", grid.NumNodes)

	prop, err := shooting.NewPropagator(grid, pp.InitialTime, pp.FinalTime, pp.StepsPerSegment)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	theta := linearControl(grid, prop.Times, 5*math.Pi/180, 100*math.Pi/180)
	tr, err := prop.Propagate([]float64{0, 10, 0}, shooting.NewBrachistochrone(), theta)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Printf("%10s %12s %12s %12s\n", "t", "x", "y", "v")
	for i, t := range tr.Times {
		row := tr.States.Row(i)
		fmt.Printf("%10.5f %12.6f %12.6f %12.6f\n", t, row.AtVec(0), row.AtVec(1), row.AtVec(2))
	}
}

// linearControl fills the flattened node value array with a control that
// ramps linearly in phase time across every segment's nodes.
func linearControl(grid *PS1D.GridSpec, tm shooting.TimeMap, u0, uf float64) (values utils.Matrix) {
	values = utils.NewMatrix(grid.NumNodes, 1)
	for s, seg := range grid.Segments {
		ta, tb := tm.SegmentTimes(s)
		for j, x := range seg.Nodes {
			t := ta + (x+1)/2*(tb-ta)
			frac := (t - tm.T0) / (tm.TF - tm.T0)
			values.Set(seg.GlobalIndices[j], 0, u0+frac*(uf-u0))
		}
	}
	return
}
