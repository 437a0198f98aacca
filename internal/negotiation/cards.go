// Persuasion card decks and hand dealing. After every ongoing card turn the
// owner is dealt a fresh hand of three follow-up moves.
package negotiation

import "math/rand"

// CardTag classifies a persuasion move's angle.
type CardTag string

const (
	TagFinancial  CardTag = "financial"
	TagLogical    CardTag = "logical"
	TagEmotional  CardTag = "emotional"
	TagAggressive CardTag = "aggressive"
)

// CardKind is the deck a card is dealt from.
type CardKind string

const (
	KindStandard CardKind = "standard"
	KindFollowUp CardKind = "follow_up"
	KindRecovery CardKind = "recovery"
	KindClosing  CardKind = "closing"
)

// ActionCard is a pre-scripted persuasion move. Its text is sent to the
// oracle as the owner's turn, alongside the structured context.
type ActionCard struct {
	ID   string   `json:"id"`
	Kind CardKind `json:"kind"`
	Tag  CardTag  `json:"tag"`
	Text string   `json:"text"`
}

var standardDeck = []ActionCard{
	{ID: "std_value", Kind: KindStandard, Tag: TagFinancial, Text: "At this price you're practically making money by buying it."},
	{ID: "std_compare", Kind: KindStandard, Tag: TagLogical, Text: "Compare it with anything else on the market — nothing comes close at this price."},
	{ID: "std_story", Kind: KindStandard, Tag: TagEmotional, Text: "I picked this one out myself. It's the kind of thing you keep for years."},
	{ID: "std_scarcity", Kind: KindStandard, Tag: TagAggressive, Text: "I've got exactly two left, and the last customer nearly took both."},
	{ID: "std_specs", Kind: KindStandard, Tag: TagLogical, Text: "Let me walk you through exactly what you're getting for the money."},
	{ID: "std_feelgood", Kind: KindStandard, Tag: TagEmotional, Text: "Honestly? You'd be doing yourself a favor. Treat yourself."},
}

var followUpDeck = []ActionCard{
	{ID: "fu_bundle", Kind: KindFollowUp, Tag: TagFinancial, Text: "Take it today and I'll throw in something small on the house."},
	{ID: "fu_detail", Kind: KindFollowUp, Tag: TagLogical, Text: "You raised a fair point — here's the part most people miss."},
	{ID: "fu_trust", Kind: KindFollowUp, Tag: TagEmotional, Text: "I wouldn't sell you something I wouldn't buy for my own family."},
	{ID: "fu_push", Kind: KindFollowUp, Tag: TagAggressive, Text: "Let's be honest — you came in here because you wanted this."},
}

var recoveryDeck = []ActionCard{
	{ID: "rec_apology", Kind: KindRecovery, Tag: TagEmotional, Text: "Fair enough, that came out wrong. Let's start over."},
	{ID: "rec_reframe", Kind: KindRecovery, Tag: TagLogical, Text: "Forget the pitch. What would actually make this work for you?"},
	{ID: "rec_sweeten", Kind: KindRecovery, Tag: TagFinancial, Text: "Tell you what — I can shave a little off, just between us."},
}

var closingDeck = []ActionCard{
	{ID: "close_now", Kind: KindClosing, Tag: TagFinancial, Text: "Shake on it right now and the price stands. Deal?"},
	{ID: "close_wrap", Kind: KindClosing, Tag: TagEmotional, Text: "You love it, I can tell. Shall I wrap it up?"},
}

// closingInterestThreshold forces a guaranteed closing card into the hand
// once the customer is this interested.
const closingInterestThreshold = 75

// dealOpeningHand deals the three standard moves available after product
// selection.
func dealOpeningHand(rng *rand.Rand) []ActionCard {
	picks := rng.Perm(len(standardDeck))
	return []ActionCard{
		standardDeck[picks[0]],
		standardDeck[picks[1]],
		standardDeck[picks[2]],
	}
}

// dealFollowUpHand deals the post-turn hand: one fresh standard action, one
// follow-up, one recovery. At high interest the recovery slot is replaced by
// a guaranteed closing action.
func dealFollowUpHand(rng *rand.Rand, interest int) []ActionCard {
	hand := []ActionCard{
		standardDeck[rng.Intn(len(standardDeck))],
		followUpDeck[rng.Intn(len(followUpDeck))],
		recoveryDeck[rng.Intn(len(recoveryDeck))],
	}
	if interest >= closingInterestThreshold {
		hand[2] = closingDeck[rng.Intn(len(closingDeck))]
	}
	return hand
}
