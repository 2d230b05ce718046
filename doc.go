/*
 * doc.go, part of trajview.
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

/*
Package trajview is the main package of the trajview library. It provides the
container for sets of atmospheric trajectories, as produced by the LAGRANTO
trajectory model, and the helpers shared by the readers and writers.

	**trajview Capabilities**

    Reads/writes LAGRANTO ASCII files, plain or compressed (traj/ascii).

    Reads/writes LAGRANTO and COSMO NetCDF trajectory files (traj/netcdf).

    Exports/imports trajectories as Parquet tables (traj/parquet).

    Detects the format of a trajectory file (traj).

    Concatenates sets of trajectories along the trajectory or the time
	axis, selects trajectories and adds new fields.

    Draws trajectories on map projections, coloured by any field (trajplot).

A Set is a table of shape (ntra, ntime): one row per trajectory, one column per
time step, with one value per named field. The time field is shared by all the
trajectories.

	s, err := traj.Load("lsl_20001010_00.4", traj.Options{})
	lon, err := s.Field("lon")
	fmt.Println(lon.RawRowView(0)) // longitudes of the first trajectory
*/
package trajview
