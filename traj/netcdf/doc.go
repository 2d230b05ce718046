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

//Package netcdf reads and writes trajectories in NetCDF 3 (classic) files, as written by
//LAGRANTO and by the online trajectory module of COSMO.
//
//LAGRANTO files store the trajectories along a dimension called dimx_lon, with two extra
//dimensions of length 1, and the start date in a BASEDATE variable. COSMO files use a dimension
//called id and the global attributes ref_year, ref_month, ref_day, ref_hour and ref_min.
//Files written by this package use the dimensions ntra and ntim, and the ref_* attributes.
//Times are stored relative to the start date, in hours, seconds or hh.mm.
package netcdf
