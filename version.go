package markovchain

// Version is the library and CLI version.
const Version = "0.1.0"
