// Package trending groups news items into topics using a frequency words
// file and ranks the topics by match count.
//
// The file format is line-oriented: word groups are separated by blank
// lines. Plain words within a group are synonyms, any one of which matches.
// A word prefixed with "+" must co-occur for the group to match, and a word
// prefixed with "!" excludes a title from every group.
package trending
