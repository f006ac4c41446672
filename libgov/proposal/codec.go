package proposal

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// The ledger persists a proposal's description as one opaque string; the
// voting policy travels inside it as a self-describing envelope:
//
//	<marker><version tag><description>|<key>=<value>,<key>=<value>
//
// The marker is a pair of zero-width code points that never occur in
// normal user text and survive the ledger's string constraints. Text
// without the marker, or with an unknown version tag, decodes to the
// version-0 defaults so every proposal ever created stays renderable.
const (
	metadataMarker = "​‌"

	codecVersion    int32 = 1
	codecVersionTag       = "01"

	keyApprovalThreshold = "approval_threshold"
	keyQuorum            = "quorum"
)

// EncodeMetadata appends the metadata block to description and prefixes
// the whole payload with the marker and current version tag.
func EncodeMetadata(description string, md Metadata) string {
	quorum := md.Quorum
	if quorum == "" {
		quorum = DefaultQuorum
	}
	return fmt.Sprintf("%s%s%s|%s=%d,%s=%s",
		metadataMarker, codecVersionTag, description,
		keyApprovalThreshold, md.Type.ThresholdBps(),
		keyQuorum, quorum)
}

// DecodeMetadata extracts the embedded voting policy and the plain
// description from a proposal's full text. It never fails: malformed or
// legacy text degrades to the version-0 defaults, because failing to
// render a long-lived proposal is worse than rendering it with default
// governance parameters.
func DecodeMetadata(fullText string) (Metadata, string) {
	if !strings.HasPrefix(fullText, metadataMarker) {
		return DefaultMetadata(), fullText
	}

	tagged := strings.TrimPrefix(fullText, metadataMarker)
	if !strings.HasPrefix(tagged, codecVersionTag) {
		log.Debugf("unknown metadata version in proposal text, using defaults")
		return DefaultMetadata(), fullText
	}
	payload := strings.TrimPrefix(tagged, codecVersionTag)

	// Descriptions may legally contain pipes; only the final segment is
	// metadata.
	idx := strings.LastIndex(payload, "|")
	if idx < 0 {
		log.Debugf("metadata block missing from versioned proposal text, using defaults")
		return DefaultMetadata(), payload
	}

	description := payload[:idx]
	md := DefaultMetadata()
	md.Version = codecVersion

	for _, pair := range strings.Split(payload[idx+1:], ",") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		switch key {
		case keyApprovalThreshold:
			bps, err := strconv.ParseInt(value, 10, 64)
			if err != nil || bps <= 0 {
				continue
			}
			switch bps {
			case superMajorityThresholdBps:
				md.Type = SuperMajority
				md.ApprovalThresholdBps = bps
			case simpleMajorityThresholdBps:
				md.Type = SimpleMajority
				md.ApprovalThresholdBps = bps
			default:
				// Fail closed rather than accept an unrecognized
				// governance rule silently.
				log.Debugf("unrecognized approval threshold %d, using default", bps)
			}
		case keyQuorum:
			n, ok := new(big.Int).SetString(value, 10)
			if !ok || n.Sign() <= 0 {
				continue
			}
			md.Quorum = n.String()
		}
	}

	return md, description
}
