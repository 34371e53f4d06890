package model

import (
    "time"

    "go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing is a rentable property stored in the `listings` collection.
// Creator references the owning user and never changes after creation.
// Capacity counts are non-negative and Price is strictly positive; both
// are checked by the listing service before insert.
type Listing struct {
    ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
    Creator           primitive.ObjectID `bson:"creator" json:"creator"`
    Category          string             `bson:"category" json:"category"`
    Type              string             `bson:"type" json:"type"`
    StreetAddress     string             `bson:"streetAddress" json:"streetAddress"`
    AptSuite          string             `bson:"aptSuite" json:"aptSuite"`
    City              string             `bson:"city" json:"city"`
    Province          string             `bson:"province" json:"province"`
    Country           string             `bson:"country" json:"country"`
    GuestCount        int                `bson:"guestCount" json:"guestCount"`
    BedroomCount      int                `bson:"bedroomCount" json:"bedroomCount"`
    BedCount          int                `bson:"bedCount" json:"bedCount"`
    BathroomCount     int                `bson:"bathroomCount" json:"bathroomCount"`
    Amenities         []string           `bson:"amenities" json:"amenities"`
    ListingPhotoPaths []string           `bson:"listingPhotoPaths" json:"listingPhotoPaths"`
    Title             string             `bson:"title" json:"title"`
    Description       string             `bson:"description" json:"description"`
    Highlight         string             `bson:"highlight" json:"highlight"`
    HighlightDesc     string             `bson:"highlightDesc" json:"highlightDesc"`
    Price             float64            `bson:"price" json:"price"`
    CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
    UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PopulatedListing is a listing whose creator reference has been
// replaced by the creator's document.  The outer Creator field shadows
// Listing.Creator when encoding to JSON; a missing creator encodes as null.
type PopulatedListing struct {
    Listing
    Creator *User `json:"creator"`
}

// ListingFilter selects listings.  Zero values are ignored; when Term is
// set the listing matches if its category or title contains Term,
// case-insensitively.
type ListingFilter struct {
    Category  string
    Term      string
    CreatorID primitive.ObjectID
}
