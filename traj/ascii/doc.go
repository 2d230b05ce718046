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
Package ascii reads and writes the ASCII trajectory files produced by LAGRANTO,
plain or compressed.

******************** Format Description     ***************************************************

A LAGRANTO ASCII file starts with a header of 4 lines:

	Reference date 20001010_0000 / Time range    2880 min
	(blank line)
	   time       lon      lat     p      TH
	------------------------------------------

The first line gives the start date of the trajectories (YYYYMMDD_HHMM) and their
duration in minutes. The third line names the columns, the fourth one is a dashed
line with the same column widths.

Each trajectory follows as a block, started by a blank line, with one line per time step.
The first four columns (time, lon, lat, pressure or level) have fixed widths, which depend on
the number of digits used for the coordinates:

	digit 2: %7.2f %9.2f %8.2f %6.0f
	digit 3: %7.2f %10.3f %9.3f %6.0f

Every other column is written as %10.3f. Missing values are written as -1000 (older files
use -999.99 or -999.999).

Times are written in hh.mm notation, relative to the reference date: the integer part is the
number of hours, the two first decimals the number of minutes. 1.30 is one hour and a half,
-0.30 is half an hour before the reference date.

Files may be compressed with gzip or zstd. Compression is detected from the content when
reading, and selected from the file suffix (.gz, .zst) or the options when writing.

***************************************************************************************************/
package ascii
