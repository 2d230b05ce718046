/*
 * cmd.go, part of trajview.
 *
 * Copyright 2022 The trajview Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package trajviewutil holds the command line interface of trajview.
package trajviewutil

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dboateng/trajview"
	"github.com/dboateng/trajview/traj"
	"github.com/dboateng/trajview/trajplot"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"
)

// Cfg holds the configuration: flags, TRAJVIEW_ environment variables and
// the file given with --config.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	readers := []*pflag.FlagSet{infoCmd.Flags(), convertCmd.Flags(), concatCmd.Flags(), plotCmd.Flags()}
	writers := []*pflag.FlagSet{convertCmd.Flags(), concatCmd.Flags()}
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location (TOML, YAML or JSON).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose prints debugging information.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "hours",
			usage: `
              hours reads the time field as hours since the start date
              instead of dates.`,
			defaultVal: false,
			flagsets:   readers,
		},
		{
			name: "missing",
			usage: `
              missing is the value marking missing data in the input files.
              0 means the default of each format (-999 for NetCDF, -999.999 for ASCII).`,
			defaultVal: 0.0,
			flagsets:   readers,
		},
		{
			name: "unit",
			usage: `
              unit is the unit of the time variable of NetCDF input files:
              hours, seconds or hhmm. By default it is read from the file.`,
			defaultVal: "",
			flagsets:   readers,
		},
		{
			name: "exclude",
			usage: `
              exclude lists NetCDF variables not to read.`,
			defaultVal: []string{},
			flagsets:   readers,
		},
		{
			name: "format",
			usage: `
              format is the format of the output file: ascii, netcdf or parquet.
              By default it is chosen from the extension of the file.`,
			shorthand:  "f",
			defaultVal: "",
			flagsets:   writers,
		},
		{
			name: "digit",
			usage: `
              digit is the number of decimals of lon and lat in ASCII output, 2 or 3.`,
			defaultVal: 3,
			flagsets:   writers,
		},
		{
			name: "gzip",
			usage: `
              gzip compresses ASCII output.`,
			defaultVal: false,
			flagsets:   writers,
		},
		{
			name: "outunit",
			usage: `
              outunit is the unit of the time variable of NetCDF output: hours, seconds or hhmm.`,
			defaultVal: "hours",
			flagsets:   writers,
		},
		{
			name: "single",
			usage: `
              single writes NetCDF fields in single precision.`,
			defaultVal: false,
			flagsets:   writers,
		},
		{
			name: "alongtime",
			usage: `
              alongtime concatenates along the time axis instead of stacking trajectories.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{concatCmd.Flags()},
		},
		{
			name: "variable",
			usage: `
              variable is the field colouring the trajectories.`,
			defaultVal: "p",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "projection",
			usage: `
              projection is the PROJ string of the map. By default longitude/latitude.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "levels",
			usage: `
              levels is the number of colour levels.`,
			defaultVal: trajplot.DefaultLevels,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "width",
			usage: `
              width is the width of the map, in inches.`,
			defaultVal: 8.0,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "height",
			usage: `
              height is the height of the map, in inches.`,
			defaultVal: 6.0,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "colorbar",
			usage: `
              colorbar also saves the colour bar, to the output file name with
              the suffix _colorbar.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("TRAJVIEW")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
			case int:
				set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(infoCmd)
	Root.AddCommand(convertCmd)
	Root.AddCommand(concatCmd)
	Root.AddCommand(plotCmd)
}

// setConfig finds and reads in the configuration file, if there is one, and
// sets the logging level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("trajview: problem reading configuration file: %v", err)
		}
	}
	if Cfg.GetBool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "trajview",
	Short: "Read, convert and plot atmospheric trajectories.",
	Long: `trajview reads LAGRANTO trajectory files (NetCDF or ASCII, plain or compressed)
and Parquet tables, and converts, concatenates or plots them.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'TRAJVIEW_var' where 'var' is the
name of the variable to be set.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

// loadOptions returns the options for traj.Load from the configuration.
func loadOptions() (traj.Options, error) {
	exclude, err := cast.ToStringSliceE(Cfg.Get("exclude"))
	if err != nil {
		return traj.Options{}, fmt.Errorf("trajview: invalid exclude option: %v", err)
	}
	missing, err := cast.ToFloat64E(Cfg.Get("missing"))
	if err != nil {
		return traj.Options{}, fmt.Errorf("trajview: invalid missing option: %v", err)
	}
	return traj.Options{
		Hours:   Cfg.GetBool("hours"),
		Missing: missing,
		Unit:    Cfg.GetString("unit"),
		Exclude: exclude,
	}, nil
}

// writeOptions returns the options for traj.Write from the configuration.
func writeOptions() traj.WriteOptions {
	return traj.WriteOptions{
		Format: Cfg.GetString("format"),
		Digit:  Cfg.GetInt("digit"),
		Gzip:   Cfg.GetBool("gzip"),
		Unit:   Cfg.GetString("outunit"),
		Single: Cfg.GetBool("single"),
	}
}

// load reads the trajectory files in names.
func load(names ...string) ([]*trajview.Set, error) {
	o, err := loadOptions()
	if err != nil {
		return nil, err
	}
	sets := make([]*trajview.Set, len(names))
	for i, name := range names {
		s, err := traj.Load(os.ExpandEnv(name), o)
		if err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{"file": name}).Debug(s.String())
		sets[i] = s
	}
	return sets, nil
}

var infoCmd = &cobra.Command{
	Use:   "info file...",
	Short: "Print a summary of trajectory files.",
	Long: `info prints, for each file, the number of trajectories and time steps,
the fields, the start date and the duration of the trajectories.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := load(args...)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for i, s := range sets {
			fmt.Fprintf(w, "%s:\n%s\nstart date: %s\n", args[i], s, s.StartDate().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert input output",
	Short: "Convert a trajectory file to another format.",
	Long: `convert reads a trajectory file in any supported format and writes it
in the format given by --format, or by the extension of the output file
(.nc for NetCDF, .parquet for Parquet, ASCII otherwise).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := load(args[0])
		if err != nil {
			return err
		}
		return traj.Write(sets[0], os.ExpandEnv(args[1]), writeOptions())
	},
	DisableAutoGenTag: true,
}

var concatCmd = &cobra.Command{
	Use:   "concat output input...",
	Short: "Concatenate trajectory files.",
	Long: `concat stacks the trajectories of the input files, which must have the
same time steps and fields, and writes them to the output file. With --alongtime
the trajectories are extended in time instead.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := load(args[1:]...)
		if err != nil {
			return err
		}
		axis := trajview.AlongTrajectories
		if Cfg.GetBool("alongtime") {
			axis = trajview.AlongTime
		}
		s, err := sets[0].Concatenate(axis, sets[1:]...)
		if err != nil {
			return err
		}
		return traj.Write(s, os.ExpandEnv(args[0]), writeOptions())
	},
	DisableAutoGenTag: true,
}

// markStart marks the first position of the first trajectory of s, if
// there is one and it is not missing.
func markStart(m *trajplot.Map, s *trajview.Set) error {
	lon, _ := s.Column("lon")
	lat, _ := s.Column("lat")
	if len(lon) == 0 || len(lat) == 0 || math.IsNaN(lon[0]) || math.IsNaN(lat[0]) {
		trajview.Log.Debug("no starting point to mark")
		return nil
	}
	return m.AddMarker(lon[0], lat[0])
}

var plotCmd = &cobra.Command{
	Use:   "plot input output",
	Short: "Draw the trajectories of a file on a map.",
	Long: `plot draws the trajectories of a file on a map, coloured by --variable,
and marks the starting point of the first trajectory. The image format is given
by the extension of the output file.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := load(args[0])
		if err != nil {
			return err
		}
		s := sets[0]
		w, h := Cfg.GetFloat64("width"), Cfg.GetFloat64("height")
		if w <= 0 || h <= 0 {
			return fmt.Errorf("trajview: invalid map size %gx%g", w, h)
		}
		variable := Cfg.GetString("variable")
		col, err := s.Column(variable)
		if err != nil {
			return err
		}
		levels, err := trajplot.Levels(col, Cfg.GetInt("levels"))
		if err != nil {
			return err
		}
		m, err := trajplot.NewMap(Cfg.GetString("projection"))
		if err != nil {
			return err
		}
		m.Title.Text = filepath.Base(args[0])
		if _, err := m.AddTrajectories(s, variable, levels, nil); err != nil {
			return err
		}
		if err := markStart(m, s); err != nil {
			return err
		}
		out := os.ExpandEnv(args[1])
		if err := m.Save(vg.Length(w)*vg.Inch, vg.Length(h)*vg.Inch, out); err != nil {
			return err
		}
		if !Cfg.GetBool("colorbar") {
			return nil
		}
		cb, err := m.ColorBar()
		if err != nil {
			return err
		}
		cb.X.Label.Text = variable
		ext := filepath.Ext(out)
		return cb.Save(vg.Length(w)*vg.Inch, vg.Inch, strings.TrimSuffix(out, ext)+"_colorbar"+ext)
	},
	DisableAutoGenTag: true,
}
