package assistant

// StoreKnowledge is the static store description included in every context.
const StoreKnowledge = `## About Ayesha's Shopping Store
We're a premium online retailer specializing in:
- Fashion apparel (women's, men's, kids)
- Handmade jewelry and accessories
- Organic beauty products
- Home decor items

## Policies
- Shipping: Free on orders over $50 (3-5 business days)
- Returns: 30 days with original packaging
- Contact: support@ayeshastore.com or (555) 123-4567

## Current Promotions
1. Summer Sale - 20% off all dresses
2. New customer discount - 15% off first order`

// Apology is returned to the customer whenever a reply could not be produced.
const Apology = "I'm having some technical difficulties. Please email support@ayeshastore.com for immediate assistance."
