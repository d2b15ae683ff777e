package app

// EmptyPile is the card index a port passes when the click landed on an empty pile's outline.
const EmptyPile = -1
