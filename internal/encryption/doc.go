// Package encryption streams files through the repeating-key XOR cipher.
//
// Every output starts with the unencrypted 16-byte header from package header, followed by the
// payload transformed at keystream offsets counted from the first payload byte. The codec reads
// and writes in fixed-size chunks, so memory use is bounded by the chunk size; chunk boundaries
// never change the output. A Processor runs the codec over many files concurrently.
package encryption
