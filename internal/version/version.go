package version

// Version is the release tag stamped into --version output and the
// HTTP User-Agent.
const Version = "0.3.0"
