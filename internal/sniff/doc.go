// Package sniff classifies image buffers by content.
//
// Detection never consults file names or URL extensions; Stash serves
// screenshots under .jpg paths regardless of the stored encoding, so the
// bytes are the only trustworthy signal.
package sniff
