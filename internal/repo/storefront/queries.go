package storefront

const imageFields = `
  fragment ImageFields on Image {
    id
    url
    altText
    width
    height
  }
`

const productItemFragment = imageFields + `
  fragment MoneyProductItem on MoneyV2 {
    amount
    currencyCode
  }
  fragment ProductItem on Product {
    id
    handle
    title
    description
    featuredImage {
      ...ImageFields
    }
    priceRange {
      minVariantPrice {
        ...MoneyProductItem
      }
      maxVariantPrice {
        ...MoneyProductItem
      }
    }
    variants(first: 1) {
      nodes {
        selectedOptions {
          name
          value
        }
      }
    }
  }
`

const pageInfoFields = `
  pageInfo {
    hasNextPage
    hasPreviousPage
    startCursor
    endCursor
  }
`

var storeCollectionsQuery = Operation{
	Name: "StoreCollections",
	Document: imageFields + `
  fragment Collection on Collection {
    id
    title
    description
    handle
    image {
      ...ImageFields
    }
  }
  query StoreCollections(
    $country: CountryCode
    $language: LanguageCode
    $first: Int
    $last: Int
    $before: String
    $after: String
  ) @inContext(country: $country, language: $language) {
    collections(first: $first, last: $last, before: $before, after: $after) {
      nodes {
        ...Collection
      }` + pageInfoFields + `
    }
  }
`,
}

var collectionQuery = Operation{
	Name: "Collection",
	Document: productItemFragment + `
  query Collection(
    $handle: String!
    $country: CountryCode
    $language: LanguageCode
    $first: Int
    $last: Int
    $before: String
    $after: String
  ) @inContext(country: $country, language: $language) {
    collection(handle: $handle) {
      id
      handle
      title
      description
      image {
        ...ImageFields
      }
      products(first: $first, last: $last, before: $before, after: $after) {
        nodes {
          ...ProductItem
        }` + pageInfoFields + `
      }
    }
  }
`,
}

var productQuery = Operation{
	Name: "Product",
	Document: imageFields + `
  query Product($handle: String!, $country: CountryCode, $language: LanguageCode)
    @inContext(country: $country, language: $language) {
    product(handle: $handle) {
      id
      handle
      title
      description
      descriptionHtml
      featuredImage {
        ...ImageFields
      }
      priceRange {
        minVariantPrice {
          amount
          currencyCode
        }
        maxVariantPrice {
          amount
          currencyCode
        }
      }
      images(first: 10) {
        nodes {
          ...ImageFields
        }` + pageInfoFields + `
      }
      variants(first: 25) {
        nodes {
          id
          title
          availableForSale
          price {
            amount
            currencyCode
          }
          selectedOptions {
            name
            value
          }
        }` + pageInfoFields + `
      }
    }
  }
`,
}

var featuredCollectionQuery = Operation{
	Name: "FeaturedCollection",
	Document: imageFields + `
  query FeaturedCollection($country: CountryCode, $language: LanguageCode)
    @inContext(country: $country, language: $language) {
    collections(first: 2, sortKey: UPDATED_AT, reverse: true) {
      nodes {
        id
        title
        handle
        image {
          ...ImageFields
        }
      }
    }
  }
`,
}

var recommendedProductsQuery = Operation{
	Name: "RecommendedProducts",
	Document: imageFields + `
  query RecommendedProducts($country: CountryCode, $language: LanguageCode)
    @inContext(country: $country, language: $language) {
    products(first: 4, sortKey: UPDATED_AT, reverse: true) {
      nodes {
        id
        title
        handle
        priceRange {
          minVariantPrice {
            amount
            currencyCode
          }
        }
        images(first: 1) {
          nodes {
            ...ImageFields
          }
        }
      }
    }
  }
`,
}

var policiesQuery = Operation{
	Name: "Policies",
	Document: `
  fragment PolicyItem on ShopPolicy {
    id
    title
    handle
    body
    url
  }
  query Policies($country: CountryCode, $language: LanguageCode)
    @inContext(country: $country, language: $language) {
    shop {
      privacyPolicy {
        ...PolicyItem
      }
      shippingPolicy {
        ...PolicyItem
      }
      termsOfService {
        ...PolicyItem
      }
      refundPolicy {
        ...PolicyItem
      }
      subscriptionPolicy {
        id
        title
        handle
        body
        url
      }
    }
  }
`,
}

const menuItemFields = `
  fragment MenuItem on MenuItem {
    id
    resourceId
    title
    type
    url
  }
  fragment ParentMenuItem on MenuItem {
    ...MenuItem
    items {
      ...MenuItem
    }
  }
  fragment Menu on Menu {
    id
    items {
      ...ParentMenuItem
    }
  }
`

var headerQuery = Operation{
	Name: "Header",
	Document: menuItemFields + `
  query Header($headerMenuHandle: String!, $country: CountryCode, $language: LanguageCode)
    @inContext(country: $country, language: $language) {
    shop {
      id
      name
      description
      primaryDomain {
        url
      }
    }
    menu(handle: $headerMenuHandle) {
      ...Menu
    }
  }
`,
}

var footerQuery = Operation{
	Name: "Footer",
	Document: menuItemFields + `
  query Footer($footerMenuHandle: String!, $country: CountryCode, $language: LanguageCode)
    @inContext(country: $country, language: $language) {
    menu(handle: $footerMenuHandle) {
      ...Menu
    }
  }
`,
}

var cartQuantityQuery = Operation{
	Name: "CartQuantity",
	Document: `
  query CartQuantity($cartId: ID!, $country: CountryCode, $language: LanguageCode)
    @inContext(country: $country, language: $language) {
    cart(id: $cartId) {
      id
      totalQuantity
    }
  }
`,
}

const customerUserErrors = `
      customerUserErrors {
        code
        field
        message
      }
`

const accessTokenFields = `
      customerAccessToken {
        accessToken
        expiresAt
      }
`

const customerFields = `
  fragment CustomerFields on Customer {
    id
    firstName
    lastName
    email
    phone
    acceptsMarketing
  }
`

var customerQuery = Operation{
	Name: "Customer",
	Document: customerFields + `
  query Customer($customerAccessToken: String!, $country: CountryCode, $language: LanguageCode)
    @inContext(country: $country, language: $language) {
    customer(customerAccessToken: $customerAccessToken) {
      ...CustomerFields
    }
  }
`,
}

var customerCreateMutation = Operation{
	Name: "customerCreate",
	Document: `
  mutation customerCreate($input: CustomerCreateInput!, $country: CountryCode, $language: LanguageCode)
    @inContext(country: $country, language: $language) {
    customerCreate(input: $input) {
      customer {
        id
      }` + customerUserErrors + `
    }
  }
`,
}

var customerAccessTokenCreateMutation = Operation{
	Name: "customerAccessTokenCreate",
	Document: `
  mutation customerAccessTokenCreate(
    $input: CustomerAccessTokenCreateInput!
    $country: CountryCode
    $language: LanguageCode
  ) @inContext(country: $country, language: $language) {
    customerAccessTokenCreate(input: $input) {` + customerUserErrors + accessTokenFields + `
    }
  }
`,
}

var customerAccessTokenDeleteMutation = Operation{
	Name: "customerAccessTokenDelete",
	Document: `
  mutation customerAccessTokenDelete(
    $customerAccessToken: String!
    $country: CountryCode
    $language: LanguageCode
  ) @inContext(country: $country, language: $language) {
    customerAccessTokenDelete(customerAccessToken: $customerAccessToken) {
      deletedAccessToken
      userErrors {
        field
        message
      }
    }
  }
`,
}

var customerUpdateMutation = Operation{
	Name: "customerUpdate",
	Document: customerFields + `
  mutation customerUpdate(
    $customerAccessToken: String!
    $customer: CustomerUpdateInput!
    $country: CountryCode
    $language: LanguageCode
  ) @inContext(language: $language, country: $country) {
    customerUpdate(customerAccessToken: $customerAccessToken, customer: $customer) {
      customer {
        ...CustomerFields
      }` + accessTokenFields + customerUserErrors + `
    }
  }
`,
}

var customerRecoverMutation = Operation{
	Name: "customerRecover",
	Document: `
  mutation customerRecover($email: String!, $country: CountryCode, $language: LanguageCode)
    @inContext(country: $country, language: $language) {
    customerRecover(email: $email) {` + customerUserErrors + `
    }
  }
`,
}

var customerResetMutation = Operation{
	Name: "customerReset",
	Document: `
  mutation customerReset($id: ID!, $input: CustomerResetInput!, $country: CountryCode, $language: LanguageCode)
    @inContext(country: $country, language: $language) {
    customerReset(id: $id, input: $input) {` + accessTokenFields + customerUserErrors + `
    }
  }
`,
}

var customerActivateMutation = Operation{
	Name: "customerActivate",
	Document: `
  mutation customerActivate($id: ID!, $input: CustomerActivateInput!, $country: CountryCode, $language: LanguageCode)
    @inContext(country: $country, language: $language) {
    customerActivate(id: $id, input: $input) {` + accessTokenFields + customerUserErrors + `
    }
  }
`,
}
