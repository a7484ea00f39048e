// Package frame implements the Open Protocol wire framing layer: the
// Header Parser (byte stream → framed messages) and the Header Serializer
// (message → framed bytes).
//
// A framed message on the wire is 21–10000 bytes: a 20-byte fixed-width
// ASCII header (length, MID, revision, no-ack, station ID, spindle ID,
// sequence number, message parts, message number), a variable-length
// payload, and a single NUL terminator — except for MID 900 and MID 901,
// which omit the terminator.
//
// Parser and Serializer are pure, allocation-light transforms; neither
// performs I/O or owns a connection. The linklayer package drives a
// Parser over bytes read from a transport and a Serializer over outbound
// messages, adding sequencing, acknowledgement and retry on top.
package frame
