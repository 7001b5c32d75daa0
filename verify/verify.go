// Package verify runs static checks over a decoded program before it is
// rewritten.
//
// The checks flag input the rewrite passes cannot handle faithfully:
//
//   - UNRECOGNIZED: an instruction word the decoder does not implement
//   - EXTERNAL: a branch whose literal target lies outside the decoded range
//   - DELAY: a branch in the delay slot of another branch, or a branch in
//     the last word whose delay slot was not decoded
//
// Issues carry the line position and address so they can be matched
// against the listing.
//
// # Usage Example
//
//	d := api.MakeDriverBuilder().WithSkipAll(true).Build("lint")
//	p, _ := d.Process(buf)
//	r := verify.GenerateReport(p)
//	r.WriteReport(os.Stdout)
package verify

// IssueType classifies a lint issue.
type IssueType string

const (
	IssueUnrecognized IssueType = "UNRECOGNIZED" // Word the decoder does not implement
	IssueExternal     IssueType = "EXTERNAL"     // Branch target outside the decoded range
	IssueDelay        IssueType = "DELAY"        // Delay slot holding a branch or missing
)

// Issue represents a single lint issue
type Issue struct {
	Type     IssueType              // UNRECOGNIZED, EXTERNAL or DELAY
	Position int                    // Line position in the program
	Address  uint32                 // Address of the line
	Message  string                 // Human-readable description
	Details  map[string]interface{} // Additional structured data
}
