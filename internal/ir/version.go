package ir

// LibraryVersion is the sound library version.
const LibraryVersion = "0.1.0"
