package matching

import "time"

// Relevance composition.
const (
	expertiseRelevanceWeight = 0.4
	citationRelevanceWeight  = 0.3
	qualityRelevanceWeight   = 0.3
)

// Overall score composition.
const (
	relevanceOverallWeight    = 0.5
	availabilityOverallWeight = 0.2
	qualityOverallWeight      = 0.2
	diversityOverallWeight    = 0.1

	blockingConflictFactor    = 0.3
	nonBlockingConflictFactor = 0.8
)

// Expertise scoring.
const (
	fieldMatchPoints     = 40.0
	subfieldMatchPoints  = 30.0
	keywordMatchPoints   = 10.0
	semanticPairPoints   = 3.0
	semanticBonusCap     = 20.0
	semanticJaccardFloor = 0.7
	maxScore             = 100.0
)

// Citation scoring.
const (
	citationMatchPoints = 30.0
)

// Quality scoring.
const (
	qualityBase              = 50.0
	hIndexMultiplier         = 2.0
	hIndexCap                = 30.0
	publicationDivisor       = 5.0
	publicationCap           = 15.0
	responseRateMultiplier   = 0.2
	recentReviewMultiplier   = 3.0
	recentReviewCap          = 15.0
	slowReviewThresholdDays  = 45.0
	slowReviewPenaltyDivisor = 5.0
	slowReviewPenaltyCap     = 10.0
)

// Diversity scoring.
const (
	diversityBase             = 50.0
	affiliationDiversityBonus = 10.0
)

// Workload defaults.
const (
	DefaultMaxLoad          = 3
	DefaultMinAvailability  = 30.0
	DefaultHistoryWindow    = 365 * 24 * time.Hour
	DefaultInactivityWindow = 2 * 365 * 24 * time.Hour

	loadPenalty    = 25.0
	declinePenalty = 10.0
	fullResponse   = 1.0
)

// Match reason thresholds.
const (
	strongExpertiseThreshold = 60.0
	highHIndexThreshold      = 20
	highAvailabilityFloor    = 80.0
	activeReviewerThreshold  = 3
	fastTurnaroundDays       = 30.0
	reliableResponseRate     = 0.8
)

// Conflict rule windows.
const (
	DefaultRecentWindow      = 3 * 365 * 24 * time.Hour
	DefaultFrequentWindow    = 5 * 365 * 24 * time.Hour
	DefaultFrequentThreshold = 3

	conflictCountScale = 0.1
	maxRiskScore       = 100.0
)
