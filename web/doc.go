// Package web implements the litweb directive interpreter and the
// reference-expansion engine.
//
// # Overview
//
// A web is built from line-oriented input that embeds directives inside
// regions delimited by =begin litweb and =end litweb. Inside a region, lines
// are collected into named chunks and streams:
//
//	=begin litweb
//	=begin_chunk greet
//	hello
//	=use_chunk name
//	=end_chunk greet
//	=begin_chunk name
//	world
//	=end_chunk name
//	=display_chunk greet
//	=end litweb
//
// Chunks and streams live in separate namespaces. A name may be opened any
// number of times; each span appends to the same ordered sequence. Several
// names may be open at once, in which case every accepted line is appended to
// each of them.
//
// # Phases
//
// Processing is strictly phased:
//
//  1. [Web.Parse] and [Web.ParseFile] scan all input, appending literal lines
//     to the line store and line references or symbolic uses to every open
//     chunk and stream. Uses may refer to names defined later.
//  2. [Web.ExpandAll] flattens every symbolic use, detecting cycles, and
//     memoizes each flattened sequence in place.
//  3. [Web.Render] concatenates the lines of an expanded chunk or stream.
//
// Display, output and pipe directives are only recorded during parsing; see
// [Web.Requests]. Executing them is left to the caller.
//
// # Directives
//
// A directive is the marker (default "=") at column 0 followed by a
// case-insensitive keyword whose words are joined by '_' or '-'. Region
// delimiters also accept a space, as in =begin litweb.
// The recognized keywords are begin/end (region), include, begin_chunk,
// end_chunk, begin_stream, end_stream, use_chunk, use_stream, display_chunk,
// display_stream, output_chunk, output_stream, pipe_chunk, pipe_stream,
// include_code and print. Physical lines ending in a backslash are folded
// into the following line before any directive is matched.
package web
